package presets

import (
	"time"

	"github.com/regginator/omniwordlist/config"
)

// builtinTime stamps the builtin presets so exports are reproducible.
var builtinTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func builtin(name, title, description string, tags []string, mutate func(*config.Config)) Preset {
	cfg := config.Default()
	mutate(&cfg)
	return Preset{
		Name:        name,
		Title:       title,
		Description: description,
		Version:     "1.0",
		Config:      cfg,
		Tags:        tags,
		Builtin:     true,
		CreatedAt:   builtinTime,
		UpdatedAt:   builtinTime,
	}
}

// Builtin returns fresh copies of the presets that ship with the tool.
func Builtin() []Preset {
	return []Preset{
		builtin("pentest_default", "Pentest Default",
			"Standard penetration testing wordlist generation",
			[]string{"pentest", "default"},
			func(c *config.Config) {
				c.MinLength, c.MaxLength = 8, 16
				c.Charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%"
				c.Transforms = []string{"capitalize", "append_numbers_4"}
				c.EnabledFields = []string{"first_name_male_0", "last_name_0"}
			}),
		builtin("meme_humor_pack", "Meme & Humor Pack",
			"Creative wordlist with memes and humor",
			[]string{"humor", "creative"},
			func(c *config.Config) {
				c.MinLength, c.MaxLength = 3, 140
				c.Transforms = []string{"toggle_case", "emoji"}
				c.EnabledFields = []string{"meme_format_0", "emoji_smile_0"}
			}),
		builtin("api_dev_wordlist", "API/Developer Wordlist",
			"For testing API endpoints and developer resources",
			[]string{"api", "dev"},
			func(c *config.Config) {
				c.MinLength, c.MaxLength = 4, 20
				c.Charset = "abcdefghijklmnopqrstuvwxyz0123456789_-"
				c.Transforms = []string{"lower"}
				c.EnabledFields = []string{"dev_handle_0", "keyboard_walk_0"}
			}),
		builtin("social_media_usernames", "Social Media Usernames",
			"Generate social media handles and usernames",
			[]string{"social", "usernames"},
			func(c *config.Config) {
				c.MinLength, c.MaxLength = 3, 32
				c.Charset = "abcdefghijklmnopqrstuvwxyz0123456789_"
				c.Transforms = []string{"lower"}
				c.EnabledFields = []string{"social_platform_0", "dev_handle_0"}
			}),
		builtin("pattern_basic", "Pattern-Based Basic",
			"Simple pattern-based generation",
			[]string{"pattern", "crunch"},
			func(c *config.Config) {
				c.MinLength, c.MaxLength = 4, 8
				c.Pattern = "pass@@%%"
			}),
	}
}
