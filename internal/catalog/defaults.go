package catalog

// DefaultSituations is the built-in set of tracked conflicts and
// political topics.
var DefaultSituations = []Situation{
	{
		Key:                "us_iran",
		Name:               "US-Iran Tensions",
		Keywords:           []string{"iran", "tehran", "centcom", "irgc", "strait of hormuz", "persian gulf"},
		EscalationKeywords: []string{"strike iran", "bombing iran", "war with iran"},
		Places:             []string{"tehran", "washington_dc"},
	},
	{
		Key:                "israel_gaza",
		Name:               "Israel-Gaza War",
		Keywords:           []string{"gaza", "israel", "hamas", "idf", "tel aviv", "netanyahu", "hezbollah"},
		EscalationKeywords: []string{"ground invasion", "mass casualties", "escalation"},
		Places:             []string{"tel_aviv"},
	},
	{
		Key:                "russia_ukraine",
		Name:               "Russia-Ukraine War",
		Keywords:           []string{"ukraine", "russia", "kyiv", "moscow", "putin", "zelensky"},
		EscalationKeywords: []string{"nuclear threat", "nato troops", "offensive"},
		Places:             []string{"moscow", "kyiv"},
	},
	{
		Key:                "us_china",
		Name:               "US-China Relations",
		Keywords:           []string{"china", "beijing", "taiwan", "south china sea"},
		EscalationKeywords: []string{"military confrontation", "invasion taiwan"},
		Places:             []string{"beijing", "washington_dc"},
	},
	{
		Key:                "korean_peninsula",
		Name:               "Korean Peninsula",
		Keywords:           []string{"north korea", "south korea", "kim jong", "pyongyang"},
		EscalationKeywords: []string{"missile launch", "nuclear test"},
	},
	{
		Key:                "arctic_greenland",
		Name:               "Arctic & Greenland",
		Keywords:           []string{"greenland", "arctic", "denmark"},
		EscalationKeywords: []string{"military deployment", "annexation"},
	},
	{
		Key:                "syria",
		Name:               "Syria Situation",
		Keywords:           []string{"syria", "damascus", "assad"},
		EscalationKeywords: []string{"chemical weapons", "isis"},
	},
	{
		Key:                "taiwan_strait",
		Name:               "Taiwan Strait",
		Keywords:           []string{"taiwan", "taipei", "strait"},
		EscalationKeywords: []string{"chinese naval", "invasion"},
		Places:             []string{"beijing"},
	},
	{
		Key:                "us_domestic",
		Name:               "US Domestic Politics",
		Keywords:           []string{"trump", "biden", "congress", "white house"},
		EscalationKeywords: []string{"impeachment", "crisis"},
		Places:             []string{"washington_dc"},
	},
}

// DefaultPlaces is the built-in set of monitored cities.
var DefaultPlaces = []Place{
	{
		Key: "washington_dc", Name: "Washington D.C.", Lat: 38.9072, Lon: -77.0369, Country: "USA",
		Keywords: []string{"washington", "white house", "pentagon", "capitol hill"},
	},
	{
		Key: "tehran", Name: "Tehran", Lat: 35.6892, Lon: 51.3890, Country: "Iran",
		Keywords: []string{"tehran"},
	},
	{
		Key: "tel_aviv", Name: "Tel Aviv", Lat: 32.0853, Lon: 34.7818, Country: "Israel",
		Keywords: []string{"tel aviv"},
	},
	{
		Key: "moscow", Name: "Moscow", Lat: 55.7558, Lon: 37.6173, Country: "Russia",
		Keywords: []string{"moscow", "kremlin"},
	},
	{
		Key: "kyiv", Name: "Kyiv", Lat: 50.4501, Lon: 30.5234, Country: "Ukraine",
		Keywords: []string{"kyiv", "kiev"},
	},
	{
		Key: "beijing", Name: "Beijing", Lat: 39.9042, Lon: 116.4074, Country: "China",
		Keywords: []string{"beijing"},
	},
}

// Default returns the built-in catalog. The data is validated at
// startup, so a broken default is a programming error.
func Default() *Catalog {
	c, err := New(DefaultSituations, DefaultPlaces)
	if err != nil {
		panic("catalog: invalid default data: " + err.Error())
	}
	return c
}
