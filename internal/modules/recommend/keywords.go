package recommend

// goalKeywords maps a health goal onto the plant materials, names and compounds that serve it.
var goalKeywords = map[string][]string{
	"immunity":     {"echinacea", "elderberry", "astragalus", "reishi", "ginger", "garlic", "moringa", "vitamin c", "zinc"},
	"stress":       {"ashwagandha", "lavender", "rhodiola", "holy basil", "tulsi", "chamomile", "lemon balm", "kava"},
	"sleep":        {"valerian", "chamomile", "lavender", "passionflower", "hops", "magnesium", "melatonin"},
	"energy":       {"ginseng", "maca", "guarana", "yerba mate", "cordyceps", "green tea", "rhodiola"},
	"digestion":    {"ginger", "peppermint", "fennel", "dandelion", "licorice", "rooibos", "turmeric"},
	"inflammation": {"turmeric", "curcumin", "ginger", "boswellia", "omega", "devil's claw"},
	"skin":         {"aloe", "calendula", "rosehip", "tea tree", "shea", "marula", "baobab"},
	"focus":        {"lion's mane", "ginkgo", "bacopa", "gotu kola", "rosemary", "l-theanine"},
}

// goalOrder fixes iteration order over goalKeywords.
var goalOrder = []string{"immunity", "stress", "sleep", "energy", "digestion", "inflammation", "skin", "focus"}

// formatKeywords maps a preferred format onto productType substrings.
var formatKeywords = map[string][]string{
	"capsule":  {"capsule"},
	"tea":      {"tea"},
	"tincture": {"tincture"},
	"oil":      {"oil"},
	"powder":   {"powder"},
	"topical":  {"cream", "balm", "salve", "serum"},
	"gummy":    {"gumm"},
}

// Score increments are in tenths so sums stay exact.
const (
	baseTenths   = 5
	goalTenths   = 3
	formatTenths = 2
	budgetTenths = 1
	maxTenths    = 10

	// TopN is the number of recommendations returned per request.
	TopN = 6
)
