package fields

import (
	"fmt"
	"strings"
)

// group describes a run of single-example fields that share everything
// but their value. Field ids are <prefix>_<index>.
type group struct {
	prefix      string
	category    string
	group       string
	fieldType   string
	cardinality uint64
	sensitivity Sensitivity
	uiHint      string
	enabled     bool
	describe    string
	values      []string
}

var groups = []group{
	{
		prefix: "first_name_male", category: "personal", group: "names", fieldType: "string",
		cardinality: 5000, sensitivity: SensitivityLow, uiHint: "text,autocomplete", enabled: true,
		describe: "Male first name",
		values: []string{
			"Aaryan", "Arjun", "Rohan", "Aditya", "Vikram", "Amir", "Aryan",
			"Ashok", "Akshay", "Aman", "Animesh", "Anil", "Ajay", "Ankit",
		},
	},
	{
		prefix: "first_name_female", category: "personal", group: "names", fieldType: "string",
		cardinality: 5000, sensitivity: SensitivityLow, uiHint: "text,autocomplete", enabled: true,
		describe: "Female first name",
		values: []string{
			"Priya", "Anjali", "Neha", "Diya", "Shreya", "Isha", "Aisha",
			"Ananya", "Avni", "Alisha", "Anika", "Aditi", "Amelia",
		},
	},
	{
		prefix: "last_name", category: "personal", group: "names", fieldType: "string",
		cardinality: 3000, sensitivity: SensitivityLow, uiHint: "text,autocomplete", enabled: true,
		describe: "Last name",
		values: []string{
			"Bansal", "Sharma", "Singh", "Patel", "Kumar", "Gupta", "Verma",
			"Malhotra", "Chopra", "Rao", "Desai", "Nair", "Iyer",
		},
	},
	{
		prefix: "birth_month_name", category: "dates", group: "months", fieldType: "string",
		cardinality: 12, sensitivity: SensitivityLow, uiHint: "select",
		describe: "Birth month",
		values: []string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
	},
	{
		prefix: "dev_handle", category: "tech", group: "handles", fieldType: "string",
		cardinality: 500, sensitivity: SensitivityLow, uiHint: "text",
		describe: "Developer handle",
		values: []string{
			"dev_guru", "code_ninja", "tech_wizard", "bug_slayer", "cyber_hunter",
			"pentester", "red_teamer", "hacker", "coder", "programmer",
			"admin", "root", "system", "daemon", "user",
		},
	},
	{
		prefix: "meme_format", category: "humor", group: "memes", fieldType: "string",
		cardinality: 100, sensitivity: SensitivityLow, uiHint: "select",
		describe: "Meme format",
		values: []string{
			"drake", "loss", "expanding_brain", "surprised_pikachu",
			"doge", "distracted_boyfriend", "two_button", "tic_tac_toe",
			"success_kid", "grumpy_cat", "evil_toddler", "arthur_fist",
		},
	},
	{
		prefix: "social_platform", category: "internet", group: "platforms", fieldType: "string",
		cardinality: 50, sensitivity: SensitivityLow, uiHint: "select",
		describe: "Social platform",
		values: []string{
			"twitter", "facebook", "instagram", "tiktok", "reddit", "github",
			"linkedin", "discord", "twitch", "youtube", "medium", "substack",
		},
	},
	{
		prefix: "keyboard_walk", category: "keyboard", group: "walks", fieldType: "string",
		cardinality: 100, sensitivity: SensitivityLow, uiHint: "select",
		describe: "Keyboard walk",
		values: []string{
			"qwerty", "asdfgh", "zxcvbn", "qazwsx", "qweasd",
			"1qaz", "1qaz2wsx", "123456", "111111",
		},
	},
	{
		prefix: "company_name", category: "business", group: "companies", fieldType: "string",
		cardinality: 100000, sensitivity: SensitivityLow, uiHint: "text,autocomplete",
		describe: "Company",
		values:   companies,
	},
	{
		prefix: "common_suffix", category: "patterns", group: "suffixes", fieldType: "string",
		cardinality: 1000, sensitivity: SensitivityLow, uiHint: "text",
		describe: "Common suffix",
		values: []string{
			"123", "!@#", "!!!!", "2024", "admin", "root", "pass",
			"letmein", "welcome", "password", "000000", "111111",
		},
	},
	{
		prefix: "stopword", category: "language", group: "stopwords", fieldType: "string",
		cardinality: 500, sensitivity: SensitivityLow, uiHint: "text",
		describe: "Stopword",
		values: []string{
			"the", "is", "and", "or", "but", "in", "on", "at", "to", "a",
			"hello", "goodbye", "welcome", "thanks", "please", "sorry",
		},
	},
}

var companies = []string{
	"Google", "Microsoft", "Apple", "Amazon", "Meta", "Tesla",
	"Intel", "NVIDIA", "Cisco", "IBM", "Oracle", "Salesforce",
}

// emoji sets carry several examples per field
var emojiSets = []struct {
	name   string
	values []string
}{
	{"emoji_smile", []string{"😀", "😃", "😄", "😁", "😆"}},
	{"emoji_heart", []string{"❤️", "🧡", "💛", "💚", "💙"}},
	{"emoji_fire", []string{"🔥", "💥", "⚡", "✨", "🌟"}},
	{"emoji_thinking", []string{"🤔", "🤨", "😐", "😑", "😏"}},
}

const (
	firstBirthYear = 1960
	lastBirthYear  = 2010
)

func build() []Field {
	var out []Field

	for _, g := range groups {
		for i, v := range g.values {
			out = append(out, Field{
				ID:                  fmt.Sprintf("%s_%d", g.prefix, i),
				Category:            g.category,
				Group:               g.group,
				Type:                g.fieldType,
				Examples:            []string{v},
				CardinalityEstimate: g.cardinality,
				Sensitivity:         g.sensitivity,
				UIHint:              g.uiHint,
				DefaultEnabled:      g.enabled,
				Description:         fmt.Sprintf("%s: %s", g.describe, v),
			})
		}
	}

	// A company domain only makes sense next to the company it belongs to.
	for i, c := range companies {
		out = append(out, Field{
			ID:                  fmt.Sprintf("company_domain_%d", i),
			Category:            "business",
			Group:               "domains",
			Type:                "string",
			Examples:            []string{strings.ToLower(c) + ".com"},
			CardinalityEstimate: 100000,
			Sensitivity:         SensitivityMedium,
			Dependencies:        []string{fmt.Sprintf("company_name_%d", i)},
			UIHint:              "text",
			Description:         fmt.Sprintf("Company domain: %s", strings.ToLower(c)+".com"),
		})
	}

	for year := firstBirthYear; year <= lastBirthYear; year++ {
		out = append(out, Field{
			ID:                  fmt.Sprintf("birth_year_%d", year),
			Category:            "dates",
			Group:               "years",
			Type:                "number",
			Examples:            []string{fmt.Sprint(year)},
			CardinalityEstimate: 50,
			Sensitivity:         SensitivityMedium,
			Conflicts:           []string{fmt.Sprintf("birth_year_short_%02d", year%100)},
			UIHint:              "number_range",
			Description:         fmt.Sprintf("Birth year: %d", year),
		})
		out = append(out, Field{
			ID:                  fmt.Sprintf("birth_year_short_%02d", year%100),
			Category:            "dates",
			Group:               "years",
			Type:                "number",
			Examples:            []string{fmt.Sprintf("%02d", year%100)},
			CardinalityEstimate: 50,
			Sensitivity:         SensitivityMedium,
			Conflicts:           []string{fmt.Sprintf("birth_year_%d", year)},
			UIHint:              "number_range",
			Description:         fmt.Sprintf("Two digit birth year: %02d", year%100),
		})
	}

	for i, set := range emojiSets {
		out = append(out, Field{
			ID:                  fmt.Sprintf("%s_%d", set.name, i),
			Category:            "emoji",
			Group:               "sets",
			Type:                "string",
			Examples:            set.values,
			CardinalityEstimate: 50,
			Sensitivity:         SensitivityLow,
			UIHint:              "select",
			Description:         fmt.Sprintf("Emoji set: %s", set.name),
		})
	}

	return out
}
