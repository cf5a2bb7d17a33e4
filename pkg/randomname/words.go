package randomname

// Default word lists for name generation. Localities may contain spaces and
// diacritics; the generator folds them to plain ASCII tokens.
var defaultWords = map[WordType][]string{
	Locality: {
		"Aberdeen", "Ann Arbor", "Antwerp", "Asheville", "Bath", "Bergen", "Bilbao",
		"Bolzano", "Boulder", "Bristol", "Brno", "Burlington", "Cádiz", "Cambridge",
		"Cork", "Córdoba", "Delft", "Dijon", "Dundee", "Durham", "Eindhoven", "Evora",
		"Fairbanks", "Galway", "Ghent", "Girona", "Gothenburg", "Graz", "Halifax",
		"Hobart", "Innsbruck", "Ithaca", "Kraków", "Leeds", "Leiden", "Leuven", "Lille",
		"Linz", "Lucerne", "Lyon", "Málaga", "Malmö", "Marseille", "Montpellier",
		"Nantes", "New Haven", "Nice", "Odense", "Oulu", "Oxford", "Palo Alto", "Porto",
		"Portland", "Poznań", "Providence", "Reykjavík", "Rotterdam", "Saint Paul",
		"Salzburg", "San Mateo", "Santa Fe", "Seville", "Split", "Tampere", "Tartu",
		"Toulouse", "Trieste", "Turku", "Utrecht", "Valencia", "Västerås", "Verona",
		"Zaragoza", "Zürich",
	},

	FirstName: {
		"Aaliyah", "Abel", "Ada", "Adrian", "Agnes", "Aiden", "Alma", "Amara", "Anders",
		"Anika", "Aria", "Arlo", "Astrid", "Beatrix", "Bodhi", "Bruno", "Camila", "Cyrus",
		"Dalia", "Dario", "Elena", "Elias", "Elif", "Emil", "Esme", "Ezra", "Farah",
		"Felix", "Freya", "Gideon", "Greta", "Hana", "Hugo", "Ida", "Ilan", "Imani",
		"Ines", "Iris", "Isak", "Jonah", "José", "Juno", "Kai", "Kenji", "Lars", "Leila",
		"Leon", "Lina", "Luca", "Maeve", "Mateo", "Mika", "Milo", "Nadia", "Nico", "Nora",
		"Omar", "Oskar", "Priya", "Quinn", "Rafael", "Rhea", "Rowan", "Sami", "Selma",
		"Soren", "Talia", "Theo", "Uma", "Vera", "Wren", "Yusuf", "Zara", "Zoë",
	},

	JobArea: {
		"Accountability", "Accounts", "Applications", "Assurance", "Brand", "Branding",
		"Communications", "Configuration", "Creative", "Data", "Directives", "Division",
		"Factors", "Functionality", "Group", "Identity", "Implementation", "Infrastructure",
		"Integration", "Interactions", "Intranet", "Markets", "Metrics", "Mobility",
		"Operations", "Optimization", "Paradigm", "Program", "Quality", "Research",
		"Response", "Security", "Solutions", "Tactics", "Usability", "Web",
	},

	Adjective: {
		"brave", "calm", "eager", "gentle", "happy", "jolly", "kind", "lively", "proud",
		"witty", "mighty", "swift", "sharp", "bold", "bright", "creative", "dynamic",
		"vibrant", "steadfast", "graceful", "focused", "robust", "agile", "clever",
		"curious", "elegant", "fearless", "golden", "humble", "noble", "quick", "serene",
	},

	Noun: {
		"squirrel", "tiger", "eagle", "dolphin", "panther", "lion", "panda", "koala",
		"whale", "wolf", "falcon", "otter", "rabbit", "bear", "fox", "owl", "lynx",
		"heron", "badger", "bison", "crane", "gecko", "ibis", "marten", "orca", "puffin",
	},
}

// getWords returns the word list for a given type, merging custom words if provided.
func getWords(wordType WordType, customWords map[WordType][]string) []string {
	words := defaultWords[wordType]
	if custom, ok := customWords[wordType]; ok && len(custom) > 0 {
		merged := make([]string, 0, len(words)+len(custom))
		merged = append(merged, words...)
		merged = append(merged, custom...)
		return merged
	}
	return words
}
