package prompt

import (
	"math"

	"github.com/readtheroom/readtheroom/internal/domain/analysis"
)

// Payload mirrors the JSON schema the model is asked to emit. Numbers are
// float64 because models do not reliably emit integers.
type Payload struct {
	VibeHeadline      string    `json:"vibeHeadline"`
	Roast             string    `json:"roast"`
	SentimentLabel    string    `json:"sentimentLabel"`
	SentimentScore    float64   `json:"sentimentScore"`
	SentimentTrend    []float64 `json:"sentimentTrend"`
	Participants      []string  `json:"participants"`
	DominanceScore    float64   `json:"dominanceScore"`
	RedFlags          []string  `json:"redFlags"`
	RedFlagOverview   string    `json:"redFlagOverview"`
	GreenFlags        []string  `json:"greenFlags"`
	GreenFlagOverview string    `json:"greenFlagOverview"`
	EffortBalance     string    `json:"effortBalance"`
	MovieAnalogy      string    `json:"movieAnalogy"`
	AttachmentStyle   string    `json:"attachmentStyle"`
	ReplyTimeGap      string    `json:"replyTimeGap"`
	TurningPoint      *analysis.TurningPoint `json:"turningPoint"`
	NextSteps         []string  `json:"nextSteps"`
	RPGCards          []rawCard `json:"rpgCards"`
	Songs             []analysis.SongRecommendation `json:"songRecommendations"`
}

type rawCard struct {
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Level    float64 `json:"level"`
	OneLiner string  `json:"oneLiner"`
	Stats    struct {
		YapLevel     float64 `json:"yapLevel"`
		SimpScore    float64 `json:"simpScore"`
		CringeFactor float64 `json:"cringeFactor"`
		ChaosMeasure float64 `json:"chaosMeasure"`
	} `json:"stats"`
}

const (
	successConfidence  = 89
	fallbackConfidence = 10
	trendPoints        = 10
)

func clamp(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}

func clampLevel(v float64) int {
	n := clamp(v)
	if n < 1 {
		return 1
	}
	if n > 99 {
		return 99
	}
	return n
}

func orElse(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Normalize merges the parsed model payload over a complete set of defaults.
// Every list field ends up non-nil and the dominance pair sums to exactly 100,
// so the presentation layer can render unconditionally.
func Normalize(p *Payload, stats analysis.Stats) analysis.Result {
	p1, p2 := "You", "Them"
	if len(p.Participants) > 0 && p.Participants[0] != "" {
		p1 = p.Participants[0]
	}
	if len(p.Participants) > 1 && p.Participants[1] != "" {
		p2 = p.Participants[1]
	}

	p1Score := clamp(p.DominanceScore)
	if p1Score == 0 {
		p1Score = 50
	}

	trend := make([]analysis.TrendPoint, 0, trendPoints)
	if len(p.SentimentTrend) > 0 {
		for i, score := range p.SentimentTrend {
			trend = append(trend, analysis.TrendPoint{MessageIndex: i * 10, Score: clamp(score)})
		}
	} else {
		for i := 0; i < trendPoints; i++ {
			trend = append(trend, analysis.TrendPoint{MessageIndex: i * 10, Score: 50})
		}
	}

	sentimentScore := clamp(p.SentimentScore)
	if sentimentScore == 0 {
		sentimentScore = 50
	}

	redFlags := p.RedFlags
	if redFlags == nil {
		redFlags = []string{}
	}
	greenFlags := p.GreenFlags
	if greenFlags == nil {
		greenFlags = []string{}
	}

	redOverview := p.RedFlagOverview
	if redOverview == "" {
		if len(redFlags) > 0 {
			redOverview = redFlags[0]
		} else {
			redOverview = "Too many to count"
		}
	}
	greenOverview := p.GreenFlagOverview
	if greenOverview == "" {
		if len(greenFlags) > 0 {
			greenOverview = greenFlags[0]
		} else {
			greenOverview = "None found"
		}
	}

	nextSteps := p.NextSteps
	if len(nextSteps) == 0 {
		nextSteps = []string{"Move on", "Drink water"}
	}

	cards := make([]analysis.RPGCard, 0, 2)
	for _, c := range p.RPGCards {
		cards = append(cards, analysis.RPGCard{
			Name:     orElse(c.Name, p1),
			Role:     orElse(c.Role, "NPC"),
			Level:    clampLevel(c.Level),
			OneLiner: orElse(c.OneLiner, "Loading..."),
			Stats: analysis.CardStats{
				YapLevel:     clamp(c.Stats.YapLevel),
				SimpScore:    clamp(c.Stats.SimpScore),
				CringeFactor: clamp(c.Stats.CringeFactor),
				ChaosMeasure: clamp(c.Stats.ChaosMeasure),
			},
		})
	}
	if len(cards) == 0 {
		cards = []analysis.RPGCard{placeholderCard(p1), placeholderCard(p2)}
	}

	songs := p.Songs
	if len(songs) == 0 {
		songs = defaultSongs()
	}

	stats.ReplyTimeGap = orElse(p.ReplyTimeGap, "Unclear timings")

	return analysis.Result{
		VibeHeadline: orElse(p.VibeHeadline, "Vibe Check Failed (But it's probably messy)"),
		Confidence:   successConfidence,
		Stats:        stats,
		Roast:        orElse(p.Roast, "No roast available, you're too boring."),
		Sentiment: analysis.Sentiment{
			Score: sentimentScore,
			Label: orElse(p.SentimentLabel, "Neutral"),
		},
		ChartData: analysis.ChartData{
			SentimentTrend: trend,
			Dominance: []analysis.DominanceShare{
				{Name: p1, Value: p1Score},
				{Name: p2, Value: 100 - p1Score},
			},
		},
		RedFlags:            redFlags,
		RedFlagOverview:     redOverview,
		GreenFlags:          greenFlags,
		GreenFlagOverview:   greenOverview,
		TurningPoint:        p.TurningPoint,
		EffortBalance:       orElse(p.EffortBalance, "Matched"),
		MovieAnalogy:        orElse(p.MovieAnalogy, "The Notebook (if they never met)"),
		AttachmentStyle:     orElse(p.AttachmentStyle, "Unknown"),
		NextSteps:           nextSteps,
		RPGCards:            cards,
		SongRecommendations: songs,
	}
}

// Fallback builds the complete error-flavored result returned when the model
// call or parsing fails. The UI branches on the "Internal Error:" prefix.
func Fallback(stats analysis.Stats, err error) analysis.Result {
	msg := "Unknown error"
	if err != nil {
		msg = err.Error()
	}
	stats.ReplyTimeGap = "Unknown"

	return analysis.Result{
		VibeHeadline: "Brain Freeze",
		Confidence:   fallbackConfidence,
		Stats:        stats,
		Roast:        "Internal Error: " + msg,
		Sentiment:    analysis.Sentiment{Score: 50, Label: "Neutral"},
		ChartData: analysis.ChartData{
			SentimentTrend: []analysis.TrendPoint{},
			Dominance:      []analysis.DominanceShare{},
		},
		RedFlags:          []string{"Invalid API Key", "Model Not Found", "Internet Connection"},
		RedFlagOverview:   "Connection Error",
		GreenFlags:        []string{},
		GreenFlagOverview: "None",
		TurningPoint:      nil,
		EffortBalance:     "Unknown",
		MovieAnalogy:      "Error 404: Love Not Found",
		AttachmentStyle:   "Avoidant",
		NextSteps:         []string{"Check your API Key", "Try again (logs have details)"},
		RPGCards:          []analysis.RPGCard{},
		SongRecommendations: []analysis.SongRecommendation{
			{Title: "Error", Artist: "System Failure", Reason: "Something went wrong."},
			{Title: "404", Artist: "Page Not Found", Reason: "Try again later."},
			{Title: "No Connection", Artist: "The WiFi", Reason: "Check your internet."},
		},
	}
}

func placeholderCard(name string) analysis.RPGCard {
	return analysis.RPGCard{
		Name:     name,
		Role:     "NPC",
		Level:    1,
		OneLiner: "Loading...",
		Stats:    analysis.CardStats{YapLevel: 50, SimpScore: 50, CringeFactor: 50, ChaosMeasure: 50},
	}
}

func defaultSongs() []analysis.SongRecommendation {
	return []analysis.SongRecommendation{
		{Title: "Toxic", Artist: "Britney Spears", Reason: "Do we need to explain?"},
		{Title: "Hot N Cold", Artist: "Katy Perry", Reason: "Mixed signals slightly detected."},
		{Title: "We Are Never Ever Getting Back Together", Artist: "Taylor Swift", Reason: "Just a hunch."},
	}
}
