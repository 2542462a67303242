package transform

// Substitution tables keyed by lower-case rune. Lookups lower-case the
// input rune first; replacements are emitted as given.
var (
	leetMap = map[rune][]string{
		'a': {"4", "@"},
		'e': {"3", "€"},
		'i': {"1", "!", "|"},
		'o': {"0", "()"},
		's': {"5", "$", "z"},
		't': {"7", "+"},
		'l': {"1", "|"},
		'g': {"9", "&", "6"},
		'z': {"2", "~"},
		'b': {"8", "|3", "ß"},
		'x': {"*"},
	}

	homoglyphMap = map[rune][]string{
		'a': {"а", "ɑ", "α", "ａ"},
		'e': {"е", "ε", "ｅ"},
		'o': {"о", "ο", "ｏ"},
		'p': {"р", "ρ", "ｐ"},
		'c': {"с", "ϲ", "ｃ"},
		'x': {"х", "χ", "ｘ"},
		'h': {"һ", "ｈ"},
		'n': {"ո", "ｎ"},
	}

	keyboardMap = map[rune][]string{
		'a': {"q", "s"},
		'e': {"r", "w", "d"},
		'i': {"u", "o", "k"},
		'o': {"i", "p", "l"},
		's': {"a", "d", "w", "x"},
		't': {"r", "y", "f", "g"},
	}

	diacriticMap = map[rune][]string{
		'a': {"á", "à", "ä", "â", "ã", "å", "ą", "ă"},
		'e': {"é", "è", "ë", "ê", "ę", "ė"},
		'i': {"í", "ì", "ï", "î", "į", "ı"},
		'o': {"ó", "ò", "ö", "ô", "õ", "ø", "ǫ", "ơ"},
		'u': {"ú", "ù", "ü", "û", "ũ", "ū", "ų", "ư"},
		'n': {"ñ", "ń", "ň", "ņ"},
		'c': {"ć", "č", "ç", "ĉ"},
	}

	// phonetic rules run in order
	phoneticRules = [][2]string{
		{"ph", "f"},
		{"tion", "sion"},
		{"ough", "uff"},
	}

	fixedEmoji   = "😀"
	randomEmojis = []string{"😀", "🔥", "💯", "✨", "👍", "❤️", "🎉", "🚀"}

	symbolRunes = []rune("!@#$%^&*")
)

// randomSpaceProbability is the chance of a space after each rune but the last.
const randomSpaceProbability = 0.2
