package upgrade

// DefaultCatalog returns the built-in upgrade tree: four independent roots
// (session time, breaker radius, max ducks, crit chance) whose chains branch
// out into breaker speed, duck size and gold upgrades further down.
func DefaultCatalog() []Def {
	return []Def{
		{ID: "U1", Name: "+Session Time", Description: "+2 seconds to session length.",
			Cost: 2, Effect: Add(StatSessionDuration, 2)},
		{ID: "U2", Name: "+Breaker Radius I", Description: "Increase the breaker radius by 15%.",
			Cost: 2, Effect: Multiply(StatBreakerRadius, 1.15)},
		{ID: "U3", Name: "+Breaker Damage I", Description: "Increase breaker damage by 10%.",
			Cost: 6, Requires: []string{"U1"}, Effect: Multiply(StatBreakerDamage, 1.10)},
		{ID: "U4", Name: "+Max Ducks I", Description: "Increase max ducks to 30.",
			Cost: 7, Effect: Set(StatMaxDucks, 30)},
		{ID: "U5", Name: "+Breaker Radius II", Description: "Increase the breaker radius by 25%.",
			Cost: 7, Requires: []string{"U2"}, Effect: Multiply(StatBreakerRadius, 1.25)},
		{ID: "U6", Name: "+Breaker Damage II", Description: "Add +1 flat breaker damage.",
			Cost: 18, Requires: []string{"U3"}, Effect: Add(StatBreakerDamage, 1)},
		{ID: "U7", Name: "+Max Ducks II", Description: "Increase max ducks to 55.",
			Cost: 25, Requires: []string{"U4"}, Effect: Set(StatMaxDucks, 55)},
		{ID: "U8", Name: "+Breaker Speed I", Description: "Breaker ticks 25% faster.",
			Cost: 30, Requires: []string{"U7"}, Effect: Multiply(StatBreakerSpeed, 1.25)},
		{ID: "U9", Name: "+Crit Chance I", Description: "+10% chance for critical breaker hits.",
			Cost: 20, Effect: Add(StatCritChance, 0.10)},
		{ID: "U10", Name: "+Duck Size I", Description: "Increase duck size by 10%.",
			Cost: 20, Requires: []string{"U8"}, Effect: Add(StatDuckSize, 0.10)},
		{ID: "U11", Name: "+Crit Chance II", Description: "+5% chance for critical breaker hits.",
			Cost: 15, Requires: []string{"U9"}, Effect: Add(StatCritChance, 0.05)},
		{ID: "U12", Name: "+Breaker Speed II", Description: "Breaker ticks another 25% faster.",
			Cost: 40, Requires: []string{"U8"}, Effect: Multiply(StatBreakerSpeed, 1.25)},
		{ID: "U13", Name: "+Breaker Radius III", Description: "Increase the breaker radius by 25%.",
			Cost: 40, Requires: []string{"U5"}, Effect: Multiply(StatBreakerRadius, 1.25)},
		{ID: "U14", Name: "+Breaker Damage III", Description: "Increase breaker damage by 10%.",
			Cost: 50, Requires: []string{"U11"}, Effect: Multiply(StatBreakerDamage, 1.10)},
		{ID: "U15", Name: "+Duck Size II", Description: "Increase duck size by another 10%.",
			Cost: 60, Requires: []string{"U10"}, Effect: Add(StatDuckSize, 0.10)},
		{ID: "U16", Name: "+Breaker Speed III", Description: "Breaker ticks 25% faster again.",
			Cost: 60, Requires: []string{"U15"}, Effect: Multiply(StatBreakerSpeed, 1.25)},
		{ID: "U17", Name: "+Duck Mass I", Description: "Ducks award 40% more gold.",
			Cost: 60, Requires: []string{"U16"}, Effect: Multiply(StatGoldMultiplier, 1.4)},
		{ID: "U18", Name: "+Breaker Damage IV", Description: "Add +2 flat breaker damage.",
			Cost: 80, Requires: []string{"U17"}, Effect: Add(StatBreakerDamage, 2)},
		{ID: "U19", Name: "+Breaker Damage V", Description: "Add +1 flat breaker damage.",
			Cost: 60, Requires: []string{"U18"}, Effect: Add(StatBreakerDamage, 1)},
		{ID: "U20", Name: "+Crit Chance III", Description: "+10% chance for critical breaker hits.",
			Cost: 60, Requires: []string{"U16"}, Effect: Add(StatCritChance, 0.10)},
		{ID: "U21", Name: "+Crit Damage", Description: "+25% extra damage on crits.",
			Cost: 65, Requires: []string{"U16"}, Effect: Add(StatCritBonus, 0.25)},
		{ID: "U22", Name: "+Duck Mass II", Description: "Ducks award 50% more gold.",
			Cost: 70, Requires: []string{"U20"}, Effect: Multiply(StatGoldMultiplier, 1.5)},
	}
}
