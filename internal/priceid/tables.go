package priceid

// CostTables maps item kind -> base price -> identities sharing that price.
// Prices are for vanilla NetHack 3.7; variants with different price tables
// will mis-identify.
var CostTables = map[string]map[int][]string{
	"boots": {
		8:  {"elven boots", "kicking boots"},
		30: {"fumble boots", "levitation boots"},
		50: {"jumping boots", "speed boots", "water walking boots"},
	},
	"cloak": {
		40: {"leather cloak", "orcish cloak"},
		50: {"cloak of displacement", "cloak of protection"},
		60: {"cloak of invisibility", "cloak of magic resistance"},
	},
	"helmet": {
		10: {"helmet"},
		50: {
			"helm of brilliance",
			"helm of opposite alignment",
			"helm of telepathy",
			"helm of caution",
		},
	},
	"gloves": {
		8:  {"leather gloves"},
		50: {"gauntlets of dexterity", "gauntlets of fumbling", "gauntlets of power"},
	},
	"scroll": {
		20: {"scroll of identify"},
		50: {"scroll of light"},
		60: {"scroll of enchant weapon"},
		80: {"scroll of enchant armor", "scroll of remove curse"},
		100: {
			"scroll of confuse monster",
			"scroll of destroy armor",
			"scroll of fire",
			"scroll of food detection",
			"scroll of gold detection",
			"scroll of magic mapping",
			"scroll of scare monster",
			"scroll of teleportation",
		},
		200: {
			"scroll of amnesia",
			"scroll of create monster",
			"scroll of earth",
			"scroll of taming",
		},
		300: {
			"scroll of charging",
			"scroll of genocide",
			"scroll of punishment",
			"scroll of stinking cloud",
		},
	},
	"potion": {
		20: {"potion of healing"},
		50: {
			"potion of booze",
			"potion of fruit juice",
			"potion of see invisible",
			"potion of sickness",
		},
		100: {
			"potion of confusion",
			"potion of extra healing",
			"potion of hallucination",
			"potion of restore ability",
			"potion of sleeping",
		},
		150: {
			"potion of blindness",
			"potion of gain energy",
			"potion of invisibility",
			"potion of monster detection",
			"potion of object detection",
		},
		200: {
			"potion of enlightenment",
			"potion of full healing",
			"potion of levitation",
			"potion of polymorph",
			"potion of speed",
		},
		250: {"potion of acid", "potion of oil"},
		300: {"potion of gain ability", "potion of gain level", "potion of paralysis"},
	},
	"ring": {
		100: {
			"ring of adornment",
			"ring of hunger",
			"ring of protection",
			"ring of protection from shape changers",
			"ring of stealth",
			"ring of sustain ability",
			"ring of warning",
		},
		150: {
			"ring of aggravate monster",
			"ring of cold resistance",
			"ring of gain constitution",
			"ring of gain strength",
			"ring of increase accuracy",
			"ring of increase damage",
			"ring of invisibility",
			"ring of poison resistance",
			"ring of see invisible",
			"ring of shock resistance",
		},
		200: {
			"ring of fire resistance",
			"ring of free action",
			"ring of levitation",
			"ring of regeneration",
			"ring of searching",
			"ring of slow digestion",
			"ring of teleportation",
		},
		300: {
			"ring of conflict",
			"ring of polymorph",
			"ring of polymorph control",
			"ring of teleport control",
		},
	},
	"wand": {
		100: {"wand of light", "wand of nothing"},
		150: {
			"wand of digging",
			"wand of enlightenment",
			"wand of locking",
			"wand of magic missile",
			"wand of make invisible",
			"wand of opening",
			"wand of probing",
			"wand of secret door detection",
			"wand of slow monster",
			"wand of speed monster",
			"wand of striking",
			"wand of undead turning",
		},
		175: {"wand of cold", "wand of fire", "wand of lightning", "wand of sleep"},
		200: {
			"wand of cancellation",
			"wand of create monster",
			"wand of polymorph",
			"wand of teleportation",
		},
		500: {"wand of death", "wand of wishing"},
	},
	"spellbook": {
		100: {
			"spellbook of force bolt",
			"spellbook of protection",
			"spellbook of detect monsters",
			"spellbook of light",
			"spellbook of sleep",
			"spellbook of jumping",
			"spellbook of healing",
			"spellbook of knock",
		},
		200: {
			"spellbook of magic missile",
			"spellbook of drain life",
			"spellbook of create monster",
			"spellbook of detect food",
			"spellbook of confuse monster",
			"spellbook of slow monster",
			"spellbook of cure blindness",
			"spellbook of wizard lock",
			"spellbook of chain lightning",
		},
		300: {
			"spellbook of remove curse",
			"spellbook of clairvoyance",
			"spellbook of detect unseen",
			"spellbook of identify",
			"spellbook of cause fear",
			"spellbook of charm monster",
			"spellbook of haste self",
			"spellbook of cure sickness",
			"spellbook of extra healing",
			"spellbook of stone to flesh",
		},
		400: {
			"spellbook of cone of cold",
			"spellbook of fireball",
			"spellbook of detect treasure",
			"spellbook of invisibility",
			"spellbook of levitation",
			"spellbook of restore ability",
		},
		500: {"spellbook of magic mapping", "spellbook of dig"},
		600: {
			"spellbook of create familiar",
			"spellbook of turn undead",
			"spellbook of teleport away",
			"spellbook of polymorph",
		},
		700: {"spellbook of finger of death", "spellbook of cancellation"},
	},
}

// RandomAppearances maps item kind to its pool of randomized appearances.
var RandomAppearances = map[string][]string{
	"scroll": {
		"ZELGO MER", "JUYED AWK YACC", "NR 9", "XIXAXA XOXAXA XUXAXA",
		"PRATYAVAYAH", "DAIYEN FOOELS", "LEP GEX VEN ZEA", "PRIRUTSENIE",
		"ELBIB YLOH", "VERR YED HORRE", "VENZAR BORGAVVE", "THARR",
		"YUM YUM", "KERNOD WEL", "ELAM EBOW", "DUAM XNAHT",
		"ANDOVA BEGARIN", "KIRJE", "VE FORBRYDERNE", "HACKEM MUCHE",
		"VELOX NEB", "FOOBIE BLETCH", "TEMOV", "GARVEN DEH",
		"READ ME", "ETAOIN SHRDLU", "LOREM IPSUM", "FNORD",
		"KO BATE", "ABRA KA DABRA", "ASHPD SODALG", "MAPIRO MAHAMA DIROMAT",
		"GNIK SISI VLE", "HAPAX LEGOMENON", "EIRIS SAZUN IDISI",
		"PHOL ENDE WODAN", "GHOTI", "ZLORFIK", "VAS CORP BET MANI",
		"STRC PRST SKRZ KRK", "XOR OTA",
	},
	"potion": {
		"ruby", "pink", "orange", "yellow", "emerald", "dark green",
		"cyan", "sky blue", "brilliant blue", "magenta", "purple-red",
		"puce", "milky", "swirly", "bubbly", "smoky", "cloudy",
		"effervescent", "black", "golden", "brown", "fizzy", "dark",
		"white", "murky",
	},
	"spellbook": {
		"parchment", "vellum", "ragged", "dog eared", "mottled", "stained",
		"cloth", "leather", "white", "pink", "red", "orange", "yellow",
		"velvet", "light green", "dark green", "turquoise", "cyan",
		"light blue", "dark blue", "indigo", "magenta", "purple", "violet",
		"tan", "plaid", "light brown", "dark brown", "gray", "wrinkled",
		"dusty", "bronze", "copper", "silver", "gold", "glittering",
		"shining", "dull", "thin", "thick", "checkered",
	},
	"ring": {
		"pearl", "iron", "twisted", "steel", "wire", "engagement", "shiny",
		"bronze", "brass", "copper", "silver", "gold", "wooden", "granite",
		"opal", "clay", "coral", "black onyx", "moonstone", "tiger eye",
		"jade", "agate", "topaz", "sapphire", "ruby", "diamond", "ivory",
		"emerald",
	},
	"amulet": {
		"circular", "spherical", "oval", "triangular", "pyramidal",
		"square", "concave", "hexagonal", "octagonal",
	},
	"wand": {
		"aluminum", "balsa", "brass", "copper", "crystal", "curved",
		"ebony", "forked", "glass", "hexagonal", "iridium", "iron",
		"jeweled", "long", "maple", "marble", "oak", "pine", "platinum",
		"runed", "short", "silver", "spiked", "steel", "tin", "uranium",
		"zinc",
	},
	"helmet": {"plumed", "etched", "crested", "visored"},
	"cloak":  {"tattered cape", "ornamental cope", "opera cloak", "piece of cloth"},
	"gloves": {"old", "padded", "riding", "fencing"},
	"boots":  {"mud", "snow", "riding", "buckled", "hiking", "combat", "jungle"},
}

// FixedAppearances maps unidentified descriptions that always belong to one
// identity (no price inference needed).
var FixedAppearances = map[string]string{
	"coarse mantelet":  "orcish cloak",
	"apron":            "alchemy smock",
	"hooded cloak":     "dwarvish cloak",
	"slippery cloak":   "oilskin cloak",
	"faded pall":       "elven cloak",
	"unlabeled scroll": "blank paper",
	"clear potion":     "water",
}

// TouristLowRanks are the Tourist rank titles held below experience level
// 15, used by the automatic sucker heuristic.
var TouristLowRanks = map[string]bool{
	"Rambler":       true,
	"Sightseer":     true,
	"Excursionist":  true,
	"Peregrinator":  true,
	"Peregrinatrix": true,
	"Traveler":      true,
}
