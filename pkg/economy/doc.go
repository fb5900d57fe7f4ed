// Package economy tracks gold, purchased upgrades and the stats they grant.
//
// An [Economy] is the purchase state an upgrade tree is drawn against: it
// implements [state.Provider], so a build can be projected directly from it.
//
//	econ := economy.New(upgrade.DefaultCatalog(), 10, logger)
//	econ.Earn(econ.KillReward())
//	if err := econ.Purchase("U1"); err != nil {
//	    // errors.GetCode(err) explains the rejection
//	}
//
// # Save Slots
//
// [Economy.Save] captures gold and purchases as a [Snapshot]. Snapshots are
// persisted through a [Store]:
//
//   - [FileStore]: one JSON file per slot, for the CLI
//   - [RedisStore]: one key per slot, for shared servers
//   - [MongoStore]: one document per slot
//
// [Economy.Restore] replays the effects of every purchased upgrade in catalog
// order, so stats never need to be stored.
package economy
