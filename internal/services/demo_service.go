// Package services – DemoService
//
// DemoService fills the store with sample mentions so the dashboard has
// something to show without an API key.
package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/brand-mentions/internal/domain"
	"github.com/tbourn/brand-mentions/internal/repo"
)

// MaxSeedCount caps one seeding request.
const MaxSeedCount = 500

// DemoPlatforms are the assistant surfaces sample mentions are attributed to.
var DemoPlatforms = []string{"ChatGPT", "Perplexity", "Gemini", "Google Overviews AI", "Grok", "Claude", "Bing Copilot"}

var demoTexts = map[string][]string{
	"Tesla": {
		"Based on your requirements for electric vehicles, %s would be an excellent choice.",
		"When comparing electric car options, %s consistently ranks high for innovation.",
		"Many users have reported positive experiences with %s vehicles.",
		"If you're interested in sustainable transportation, %s has been a pioneer.",
		"For luxury electric vehicles, %s offers several competitive models.",
	},
	"Apple": {
		"For your needs, %s products offer excellent integration and user experience.",
		"When comparing smartphone options, %s iPhones are known for their longevity.",
		"Many professionals prefer %s MacBooks for creative work.",
		"If you're looking for tablets, the %s iPad line offers excellent options.",
		"For wireless earbuds, %s AirPods provide good sound quality.",
	},
	"Microsoft": {
		"For business productivity, %s Office 365 is widely used.",
		"When choosing cloud platforms, %s Azure provides robust solutions.",
		"Many developers appreciate %s Visual Studio for development.",
		"If you need an operating system for business use, %s Windows is popular.",
		"For gaming, the %s Xbox series offers excellent performance.",
	},
}

var demoPrompts = []string{
	"What are the best alternatives to %s?",
	"How does %s compare to its competitors?",
	"Is %s worth the investment?",
	"Can you recommend something like %s?",
	"Tell me about %s's latest features",
}

// DemoService seeds and clears sample data.
type DemoService struct {
	DB *gorm.DB
	// Now and IntN override the clock and randomness (tests).
	Now  func() time.Time
	IntN func(n int) int
}

// Seed inserts count sample mentions for brand with random platforms,
// prompts, sentiments and timestamps within the last 24 hours. Brands
// without their own samples reuse the Tesla texts.
func (s *DemoService) Seed(ctx context.Context, brand string, count int) ([]domain.BrandMention, error) {
	tr := otel.Tracer("services/DemoService")
	ctx, span := tr.Start(ctx, "Seed",
		trace.WithAttributes(attribute.String("brand", brand), attribute.Int("count", count)))
	defer span.End()

	brand, err := ValidateBrand(brand)
	if err != nil {
		return nil, err
	}
	if count < 1 || count > MaxSeedCount {
		return nil, ErrInvalidCount
	}

	intN, now := s.IntN, s.Now
	if intN == nil {
		intN = rand.IntN
	}
	if now == nil {
		now = time.Now
	}
	texts, ok := demoTexts[brand]
	if !ok {
		texts = demoTexts["Tesla"]
	}

	base := now().UTC()
	rows := make([]domain.BrandMention, count)
	for i := range rows {
		prompt := fmt.Sprintf(demoPrompts[intN(len(demoPrompts))], brand)
		ago := time.Duration(intN(24*60)) * time.Minute
		rows[i] = domain.BrandMention{
			BrandName:        brand,
			MentionText:      fmt.Sprintf(texts[intN(len(texts))], brand),
			Platform:         DemoPlatforms[intN(len(DemoPlatforms))],
			Timestamp:        base.Add(-ago),
			TriggeringPrompt: &prompt,
			IsProcessed:      true,
			SentimentScore:   domain.Sentiments[intN(len(domain.Sentiments))].Ptr(),
		}
	}
	return repo.CreateMentions(ctx, s.DB, rows)
}
