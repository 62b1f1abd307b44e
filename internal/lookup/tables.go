package lookup

// Unknown is returned for any UWP code missing from its table.
const Unknown = "Unknown"

var starportTypes = map[byte]string{
	'A': "Excellent quality installation",
	'B': "Good quality installation",
	'C': "Routine quality installation",
	'D': "Poor quality installation",
	'E': "Frontier installation",
	'X': "No starport",
	'F': "Good quality spaceport",
	'G': "Poor quality spaceport",
	'H': "Primitive spaceport",
	'Y': "No spaceport",
}

var sizeTypes = map[byte]string{
	'0': "Asteroid belt",
	'R': "Planetary ring",
	'S': "Small world (600 km)",
	'1': "1,600 km",
	'2': "3,200 km",
	'3': "4,800 km",
	'4': "6,400 km",
	'5': "8,000 km",
	'6': "9,600 km",
	'7': "11,200 km",
	'8': "12,800 km",
	'9': "14,400 km",
	'A': "16,000 km",
	'B': "17,600 km",
	'C': "19,200 km",
	'D': "20,800 km",
	'E': "22,400 km",
	'F': "24,000 km",
}

var atmosphereTypes = map[byte]string{
	'0': "No atmosphere",
	'1': "Trace",
	'2': "Very thin, tainted",
	'3': "Very thin",
	'4': "Thin, tainted",
	'5': "Thin",
	'6': "Standard",
	'7': "Standard, tainted",
	'8': "Dense",
	'9': "Dense, tainted",
	'A': "Exotic",
	'B': "Corrosive",
	'C': "Insidious",
	'D': "Dense, high",
	'E': "Thin, low",
	'F': "Unusual",
}

var hydrographicsTypes = map[byte]string{
	'0': "Desert world (0-5% water)",
	'1': "Dry world (6-15% water)",
	'2': "20% water",
	'3': "30% water",
	'4': "40% water",
	'5': "50% water",
	'6': "60% water",
	'7': "70% water",
	'8': "80% water",
	'9': "90% water",
	'A': "Water world (96-100% water)",
}

var populationTypes = map[byte]string{
	'0': "Unpopulated",
	'1': "Tens",
	'2': "Hundreds",
	'3': "Thousands",
	'4': "Tens of thousands",
	'5': "Hundreds of thousands",
	'6': "Millions",
	'7': "Tens of millions",
	'8': "Hundreds of millions",
	'9': "Billions",
	'A': "Tens of billions",
	'B': "Hundreds of billions",
	'C': "Trillions",
	'D': "Tens of trillions",
	'E': "Hundreds of trillions",
	'F': "Quadrillions",
}

var governmentTypes = map[byte]string{
	'0': "No government structure",
	'1': "Company/Corporation",
	'2': "Participating democracy",
	'3': "Self-perpetuating oligarchy",
	'4': "Representative democracy",
	'5': "Feudal technocracy",
	'6': "Captive government",
	'7': "Balkanization",
	'8': "Civil service bureaucracy",
	'9': "Impersonal bureaucracy",
	'A': "Charismatic dictator",
	'B': "Non-charismatic leader",
	'C': "Charismatic oligarchy",
	'D': "Religious dictatorship",
	'E': "Religious autocracy",
	'F': "Totalitarian oligarchy",
}

var lawLevelTypes = map[byte]string{
	'0': "No prohibitions",
	'1': "Body pistols, explosives, and poison gas prohibited",
	'2': "Portable energy weapons prohibited",
	'3': "Machine guns and automatic rifles prohibited",
	'4': "Light assault weapons prohibited",
	'5': "Personal concealable weapons prohibited",
	'6': "All firearms except shotguns prohibited",
	'7': "Shotguns prohibited",
	'8': "Long bladed weapons controlled",
	'9': "Weapons outside the home prohibited",
	'A': "Weapon possession prohibited",
	'B': "Rigid control of civilian movement",
	'C': "Unrestricted invasion of privacy",
	'D': "Paramilitary law enforcement",
	'E': "Full-fledged police state",
	'F': "All facets of daily life legislated",
	'G': "Severe punishment for petty infractions",
	'H': "Legalized oppressive practices",
	'J': "Routinely oppressive and restrictive",
}

var techLevelTypes = map[byte]string{
	'0': "Stone age",
	'1': "Bronze age to middle ages",
	'2': "Age of sail",
	'3': "Industrial revolution",
	'4': "Mechanized age",
	'5': "Broadcast age",
	'6': "Atomic age",
	'7': "Space age",
	'8': "Information age",
	'9': "Pre-stellar",
	'A': "Early stellar",
	'B': "Average stellar",
	'C': "Average Imperial",
	'D': "Above average Imperial",
	'E': "High Imperial",
	'F': "Technical maximum Imperial",
	'G': "Robots",
	'H': "Artificial intelligence",
	'J': "Personal disintegrators",
	'K': "Plastic metals",
	'L': "Comprehensible only as technological magic",
}

// tradeCodeTypes is the closed set of trade classifications that survive
// decoding. Tokens outside this table are dropped from a world's remarks.
var tradeCodeTypes = map[string]string{
	"Ag": "Agricultural",
	"As": "Asteroid belt",
	"Ba": "Barren",
	"De": "Desert",
	"Fl": "Fluid oceans",
	"Ga": "Garden world",
	"Hi": "High population",
	"Ht": "High technology",
	"Ic": "Ice-capped",
	"In": "Industrial",
	"Lo": "Low population",
	"Lt": "Low technology",
	"Na": "Non-agricultural",
	"Ni": "Non-industrial",
	"Po": "Poor",
	"Ri": "Rich",
	"Va": "Vacuum",
	"Wa": "Water world",
}

var allegianceTypes = map[string]string{
	"Im": "Imperium",
	"Zh": "Zhodani Consulate",
	"As": "Aslan Hierate",
	"Va": "Vargr (non-aligned)",
	"Sw": "Sword Worlds Confederation",
	"Da": "Darrian Confederation",
	"Cs": "Imperial client state",
	"Fa": "Federation of Arden",
	"Na": "Non-aligned",
	"So": "Solomani Confederation",
	"Hv": "Hiver Federation",
	"Kk": "Two Thousand Worlds",
	"Dr": "Droyne",
	"Jp": "Julian Protectorate",
}

var baseTypes = map[string]string{
	"N":  "Naval base",
	"S":  "Scout base",
	"W":  "Scout way station",
	"D":  "Naval depot",
	"Z":  "Zhodani naval base",
	"M":  "Military base",
	"C":  "Corsair base",
	"K":  "Naval base (non-Imperial)",
	"RS": "Research station",
}
