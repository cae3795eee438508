package romaji

// DefaultTable is a standard Hepburn-style romaji->hiragana mapping,
// covering the gojuon, voiced/semi-voiced rows, the small-y digraphs,
// and the common doubled-consonant (small tsu) spellings. It is not
// exhaustive of every IME vendor's quirks, but it round-trips ordinary
// sentences (watashi, namae, nakano, roudoushasaigaihoshouhokennhou)
// and every syllable those decompose into. There is no single "n"
// entry: a syllable-final ん is typed "nn" or "n'", and a lone "n"
// before a consonant is left unconverted.
var DefaultTable = map[string]string{
	"a": "あ", "i": "い", "u": "う", "e": "え", "o": "お",

	"ka": "か", "ki": "き", "ku": "く", "ke": "け", "ko": "こ",
	"ga": "が", "gi": "ぎ", "gu": "ぐ", "ge": "げ", "go": "ご",
	"kya": "きゃ", "kyu": "きゅ", "kyo": "きょ",
	"gya": "ぎゃ", "gyu": "ぎゅ", "gyo": "ぎょ",

	"sa": "さ", "si": "し", "shi": "し", "su": "す", "se": "せ", "so": "そ",
	"za": "ざ", "zi": "じ", "ji": "じ", "zu": "ず", "ze": "ぜ", "zo": "ぞ",
	"sha": "しゃ", "shu": "しゅ", "sho": "しょ",
	"ja": "じゃ", "ju": "じゅ", "jo": "じょ",

	"ta": "た", "ti": "ち", "chi": "ち", "tu": "つ", "tsu": "つ", "te": "て", "to": "と",
	"da": "だ", "di": "ぢ", "du": "づ", "de": "で", "do": "ど",
	"cha": "ちゃ", "chu": "ちゅ", "cho": "ちょ",

	"na": "な", "ni": "に", "nu": "ぬ", "ne": "ね", "no": "の",
	"nya": "にゃ", "nyu": "にゅ", "nyo": "にょ",

	"ha": "は", "hi": "ひ", "hu": "ふ", "fu": "ふ", "he": "へ", "ho": "ほ",
	"ba": "ば", "bi": "び", "bu": "ぶ", "be": "べ", "bo": "ぼ",
	"pa": "ぱ", "pi": "ぴ", "pu": "ぷ", "pe": "ぺ", "po": "ぽ",
	"hya": "ひゃ", "hyu": "ひゅ", "hyo": "ひょ",
	"bya": "びゃ", "byu": "びゅ", "byo": "びょ",
	"pya": "ぴゃ", "pyu": "ぴゅ", "pyo": "ぴょ",

	"ma": "ま", "mi": "み", "mu": "む", "me": "め", "mo": "も",
	"mya": "みゃ", "myu": "みゅ", "myo": "みょ",

	"ya": "や", "yu": "ゆ", "yo": "よ",

	"ra": "ら", "ri": "り", "ru": "る", "re": "れ", "ro": "ろ",
	"rya": "りゃ", "ryu": "りゅ", "ryo": "りょ",

	"wa": "わ", "wo": "を",

	"nn": "ん", "n'": "ん",

	"xa": "ぁ", "xi": "ぃ", "xu": "ぅ", "xe": "ぇ", "xo": "ぉ",
	"xya": "ゃ", "xyu": "ゅ", "xyo": "ょ", "xtu": "っ", "xtsu": "っ",

	"-": "ー",

	"kka": "っか", "kki": "っき", "kku": "っく", "kke": "っけ", "kko": "っこ",
	"ssa": "っさ", "sshi": "っし", "ssu": "っす", "sse": "っせ", "sso": "っそ",
	"tta": "った", "cchi": "っち", "ttsu": "っつ", "tte": "って", "tto": "っと",
	"ppa": "っぱ", "ppi": "っぴ", "ppu": "っぷ", "ppe": "っぺ", "ppo": "っぽ",
	"hha": "っは", "bba": "っば",
}
