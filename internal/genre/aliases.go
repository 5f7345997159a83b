package genre

// Aliases maps common spellings of a genre (as slugs) to the slug of the
// label catalogs usually carry. An alias only applies when the target slug
// exists in the vocabulary being searched.
var Aliases = map[string]string{
	// Science fiction
	"sci-fi": "science-fiction",
	"scifi":  "science-fiction",
	"sf":     "science-fiction",

	// Young adult
	"ya":   "young-adult",
	"teen": "young-adult",

	// Non-fiction
	"non-fiction": "nonfiction",
	"nf":          "nonfiction",

	// Self help
	"selfhelp":             "self-help",
	"personal-development": "self-help",

	// Thrillers and mysteries
	"suspense":    "thriller",
	"thrillers":   "thriller",
	"mysteries":   "mystery",
	"crime-novel": "crime",

	// Romance
	"romantic":   "romance",
	"love-story": "romance",

	// Historical
	"historical": "historical-fiction",
	"history":    "historical-fiction",

	// Children
	"kids":       "childrens",
	"children":   "childrens",
	"children-s": "childrens",

	// Horror
	"scary": "horror",

	// Graphic
	"comics":        "graphic-novels",
	"graphic-novel": "graphic-novels",
	"manga-comics":  "manga",
}
