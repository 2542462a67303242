package filter

var (
	profanity = []string{
		"ass", "bastard", "bitch", "crap", "cunt", "damn",
		"dick", "fuck", "piss", "shit", "slut", "whore",
	}

	// commonPasswords are rejected by exact, case-insensitive match.
	commonPasswords = []string{
		"123", "abc", "qwerty", "aaa", "111", "password",
		"123456", "12345678", "admin", "letmein", "welcome",
		"iloveyou", "monkey", "dragon", "master", "sunshine",
		"princess", "football", "baseball", "trustno1",
	}

	// weakPasswords lower the quality score when found anywhere in a token.
	weakPasswords = []string{
		"password", "admin", "letmein", "welcome", "123456",
		"qwerty", "dragon", "master", "sunshine", "princess",
	}

	confusablePairs = [][2]string{
		{"0", "o"}, {"1", "l"}, {"1", "i"},
		{"5", "s"}, {"7", "t"}, {"8", "b"},
	}
)
