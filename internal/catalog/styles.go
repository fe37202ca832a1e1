package catalog

// Built-in styles. Group order and item order mirror the editor's object
// selector; the per-group item counts differ between styles.

// StyleSMW is the Super Mario World style table
var StyleSMW = Style{
	Name: "smw",
	Categories: []Category{
		{Name: "Terrain", Groups: [][]string{
			{"Ground", "Steep Slope", "Gentle Slope", "Pipe", "Spike Trap", "Mushroom Platform", "Semisolid Platform", "Bridge"},
			{"Block", "? Block", "Hard Block", "Hidden Block", "Donut Block", "Note Block", "Cloud Block", "Ice Block"},
		}},
		{Name: "Items", Groups: [][]string{
			{"Coin", "10-Coin", "Pink Coin", "Super Mushroom", "Fire Flower", "Cape Feather", "Super Star", "1-Up Mushroom", "Yoshi's Egg"},
		}},
		{Name: "Enemies", Groups: [][]string{
			{"Galoomba", "Koopa Troopa", "Buzzy Beetle", "Spike Top", "Spiny", "Blooper", "Cheep Cheep"},
			{"Jumping Piranha Plant", "Muncher", "Thwomp", "Monty Mole", "Rocky Wrench", "Hammer Bro", "Chain Chomp"},
			{"Wiggler", "Boo", "Lava Bubble", "Bob-omb", "Dry Bones", "Fish Bone", "Magikoopa"},
			{"Bowser", "Bowser Jr.", "Boom Boom", "Angry Sun", "Lakitu", "Koopa Clown Car"},
		}},
		{Name: "Gizmos", Groups: [][]string{
			{"Burner", "Bill Blaster", "Banzai Bill", "Cannon", "Icicle", "Twister"},
			{"Key", "Warp Door", "P Switch", "POW Block", "Trampoline", "Vine", "Arrow Sign", "Checkpoint Flag"},
			{"Lift", "Lava Lift", "Seesaw", "Grinder", "Bumper", "Skewer", "Swinging Claw"},
			{"ON/OFF Switch", "Dotted-Line Block", "Snake Block", "Fire Bar", "One-Way Wall", "Conveyor Belt", "Track"},
		}},
	},
}

// StyleSM3DW is the Super Mario 3D World style table
var StyleSM3DW = Style{
	Name: "sm3dw",
	Categories: []Category{
		{Name: "Terrain", Groups: [][]string{
			{"Ground", "Steep Slope", "Gentle Slope", "Pipe", "Clear Pipe", "Spike Block", "Semisolid Platform", "Tree"},
			{"Block", "? Block", "Hard Block", "Hidden Block", "Donut Block", "Note Block", "Cloud Block", "Ice Block"},
		}},
		{Name: "Items", Groups: [][]string{
			{"Coin", "10-Coin", "Pink Coin", "Super Mushroom", "Super Bell", "Fire Flower", "Super Star", "1-Up Mushroom"},
		}},
		{Name: "Enemies", Groups: [][]string{
			{"Goomba", "Koopa Troopa", "Ant Trooper", "Spiny", "Blooper", "Cheep Cheep", "Skipsqueak", "Stingby"},
			{"Piranha Plant", "Piranha Creeper", "Thwomp", "Hammer Bro", "Hop-Chops", "Boo", "Lava Bubble", "Bob-omb"},
			{"Dry Bones", "Fish Bone", "Magikoopa", "Meowser", "Boom Boom", "Charvaargh", "Bully", "Porcupuffer"},
			{"Koopa Troopa Car"},
		}},
		{Name: "Gizmos", Groups: [][]string{
			{"Bill Blaster", "Banzai Bill", "Icicle", "Twister", "ON/OFF Switch", "Conveyor Belt", "Crate"},
			{"Key", "Warp Door", "Warp Box", "P Switch", "POW Block", "Trampoline", "Arrow Sign", "Checkpoint Flag"},
			{"Cloud Lift", "! Block", "Snake Block", "Blinking Block", "Track Block", "Mushroom Trampoline"},
		}},
	},
}

// DefaultStyle is the style used when none is configured
const DefaultStyle = "smw"
