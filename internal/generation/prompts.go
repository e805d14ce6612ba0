package generation

import (
	"fmt"
	"strings"
)

// Platform names with a dedicated prompt.
const (
	PlatformChatGPT  = "ChatGPT"
	PlatformReddit   = "Reddit"
	PlatformTwitter  = "Twitter"
	PlatformLinkedIn = "LinkedIn"
	PlatformYouTube  = "YouTube"
)

// DefaultPlatforms is the platform set monitored when none is configured.
var DefaultPlatforms = []string{PlatformChatGPT, PlatformReddit, PlatformTwitter, PlatformLinkedIn, PlatformYouTube}

var platformPrompts = map[string]string{
	PlatformChatGPT: `Generate realistic conversations where users ask about or mention "%[1]s".
Create 2-3 realistic ChatGPT-style interactions that include:
- User questions about %[1]s
- Comparisons with competitors
- Reviews or experiences
- Feature questions

Format as if these were real ChatGPT conversations mentioning %[1]s.
Make them sound natural and varied.`,

	PlatformReddit: `Create realistic Reddit-style discussions about "%[1]s". Include:
- Posts asking for opinions about %[1]s
- Comments comparing %[1]s to alternatives
- User experiences (both positive and negative)
- Technical questions about %[1]s

Make them sound like real Reddit users with authentic language and concerns.`,

	PlatformTwitter: `Generate realistic Twitter-style mentions of "%[1]s". Create:
- User tweets about %[1]s experiences
- Questions to followers about %[1]s
- Complaints or praise about %[1]s
- News reactions involving %[1]s

Keep Twitter's character limit and style in mind.`,

	PlatformLinkedIn: `Create professional LinkedIn-style mentions of "%[1]s". Include:
- Professional recommendations
- Business use cases for %[1]s
- Industry analysis mentioning %[1]s
- Career-related discussions involving %[1]s

Maintain professional tone and business context.`,

	PlatformYouTube: `Generate realistic YouTube video titles and descriptions that mention "%[1]s". Include:
- Review video concepts
- Tutorial titles featuring %[1]s
- Comparison videos with competitors
- Unboxing or first impression videos

Make them sound like real YouTube content.`,
}

var fallbackTemplates = []string{
	"Based on your requirements, %[1]s could be a good option. It offers several features that align with what you're looking for, including robust functionality and user-friendly interface.",
	"I'd recommend considering %[1]s among your options. Many users have reported positive experiences with their service, particularly praising their customer support and reliability.",
	"When comparing different solutions, %[1]s stands out for its innovative approach and competitive pricing. However, I'd suggest evaluating it alongside other alternatives to find the best fit.",
	"Several users have mentioned %[1]s as a reliable choice in this category. While it has many strengths, it's worth noting that the best option depends on your specific needs and budget.",
	"%[1]s has been gaining traction in the market recently. Their latest updates have addressed many user concerns, making it a more compelling option than before.",
}

// SystemPrompt is sent ahead of every platform prompt.
func SystemPrompt(brand string) string {
	return fmt.Sprintf("Generate realistic social media content that mentions %s. Make it sound authentic and varied.", brand)
}

// UserPrompt returns the platform-specific prompt for brand. Platform lookup
// ignores case; unknown platforms get the ChatGPT prompt.
func UserPrompt(brand, platform string) string {
	tpl, ok := platformPrompts[canonicalPlatform(platform)]
	if !ok {
		tpl = platformPrompts[PlatformChatGPT]
	}
	return fmt.Sprintf(tpl, brand)
}

// TriggeringPrompt describes what produced a generated mention.
func TriggeringPrompt(brand, platform string) string {
	return fmt.Sprintf("Brand tracking for %s on %s", brand, platform)
}

// FallbackTexts returns every fallback sentence for brand.
func FallbackTexts(brand string) []string {
	out := make([]string, len(fallbackTemplates))
	for i, t := range fallbackTemplates {
		out[i] = fmt.Sprintf(t, brand)
	}
	return out
}

func canonicalPlatform(p string) string {
	for name := range platformPrompts {
		if strings.EqualFold(name, strings.TrimSpace(p)) {
			return name
		}
	}
	return p
}
