package spam

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/pscheid92/marketpulse/internal/domain"
)

func metaFor(author string) domain.PostMeta {
	return domain.PostMeta{Platform: "reddit", Author: author}
}

func TestIsSpamPatterns(t *testing.T) {
	f := New(clockwork.NewFakeClock(), nil)

	tests := []struct {
		name    string
		content string
		spam    bool
	}{
		{"promotional phrase", "Click Here for guaranteed stock picks", true},
		{"excessive rockets", "GME 🚀🚀🚀 to the moon", true},
		{"excessive punctuation", "stocks going up so fast!!!!!!!", true},
		{"solicitation", "dm me for my options analysis group", true},
		{"ordinary dd", "Solid DD on TSLA deliveries, price target raised", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.spam, f.IsSpam(tt.content, metaFor("someone")))
		})
	}
}

func TestIsSpamKnownBot(t *testing.T) {
	f := New(clockwork.NewFakeClock(), []string{"pump_bot_9000"})

	content := "thoughtful analysis of AAPL price action and targets"
	assert.True(t, f.IsSpam(content, metaFor("pump_bot_9000")))
	assert.False(t, f.IsSpam(content, metaFor("regular_user")))
}

func TestIsSpamVelocity(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := New(clock, nil)

	content := "new analysis on my favorite stock price target"
	for i := 0; i < 50; i++ {
		assert.False(t, f.IsSpam(content+fmt.Sprint(i), metaFor("fast_poster")), "post %d should pass", i+1)
		clock.Advance(time.Second)
	}

	// 51st post within the hour trips the velocity rule.
	assert.True(t, f.IsSpam(content, metaFor("fast_poster")))
}

func TestVelocityWindowSlides(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := New(clock, nil)

	// 50 posts spread over >60 minutes never exceed 50 in any rolling hour.
	content := "daily stock market analysis with price targets here"
	for i := 0; i < 120; i++ {
		assert.False(t, f.IsSpam(content, metaFor("steady_poster")), "post %d should pass", i+1)
		clock.Advance(90 * time.Second)
	}
}

func TestVelocityTrackedPerAuthor(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := New(clock, nil)

	content := "quick take on semiconductor stock price moves today"
	for i := 0; i < 51; i++ {
		f.IsSpam(content, metaFor("spammer"))
	}

	assert.True(t, f.IsSpam(content, metaFor("spammer")))
	assert.False(t, f.IsSpam(content, metaFor("bystander")))
}

func TestIsSpamLowQuality(t *testing.T) {
	f := New(clockwork.NewFakeClock(), nil)

	// Short and no financial vocabulary.
	assert.True(t, f.IsSpam("lol nice one", metaFor("user")))

	// Short but mentions a financial term.
	assert.False(t, f.IsSpam("puts printing", metaFor("user")))

	// Long enough without financial vocabulary.
	assert.False(t, f.IsSpam("interesting discussion about the market environment", metaFor("user")))
}
