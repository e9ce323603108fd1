package quiz

import "github.com/phrazzld/quizchain-api/internal/domain"

// Sentinel is the answer of the shortest-word task. It is strictly shorter
// than every entry of words.
const Sentinel = "Gaza"

// wordSampleSize is the number of list words mixed with the sentinel.
const wordSampleSize = 14

// words is the fixed vocabulary the shortest-word task samples from.
var words = [...]string{
	"clotter", "Odyssey", "linea", "dither", "vaginule", "browden",
	"pampero", "setup", "acarine", "Mohican", "Aplysia", "dodoism",
	"unboat", "gether", "terzo", "litter", "carbona", "ozonous",
	"mullet", "anyway", "myiasis", "fourrier", "Pahareen", "Landwehr",
	"tucum", "leant", "locality", "thallome", "enshield", "cowpen",
	"muricate", "vaguely", "raffery", "kreplech", "fretways", "horner",
	"lubber", "inlook", "semiroll", "totty", "glycine", "wangler",
	"chemist", "unceased", "chocker", "stele", "matfelon", "potoo",
	"twicer", "paetrick", "sialidan", "avulse", "blackboy", "Streltzi",
	"ungrayed", "tierlike", "lornness", "poemlet", "fantail", "mouille",
	"moider", "ramplor", "Wanyoro", "smirk", "carrel", "ransomer",
	"unspan", "jerque", "uretal", "veily", "runny", "undefied",
	"cleaver", "parnel", "phalange", "Acropora", "barra", "sural",
	"onhanger", "quirkish", "Latinize", "sheered", "aroar", "unhacked",
	"tylion", "multiped", "faradic", "Amazona", "motey", "ratter",
	"casklike", "skeely", "anaphyte", "ergotin", "normless", "sware",
	"limbo", "winddog", "grease", "Macleaya",
}

// Words returns a copy of the vocabulary.
func Words() []string {
	out := make([]string, len(words))
	copy(out, words[:])
	return out
}

// generateShortestWord mixes the sentinel into 14 words sampled without
// replacement and shuffles the result.
func generateShortestWord(rng Rand) (domain.Parameters, string) {
	pool := Words()
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	arr := make([]string, 0, wordSampleSize+1)
	arr = append(arr, Sentinel)
	arr = append(arr, pool[:wordSampleSize]...)
	rng.Shuffle(len(arr), func(i, j int) {
		arr[i], arr[j] = arr[j], arr[i]
	})

	return domain.Parameters{
		{Name: "A", Value: arr},
	}, Sentinel
}
