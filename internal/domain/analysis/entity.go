package analysis

// Stats are the locally computed message statistics. Counts come from a line
// heuristic, not real message attribution, so treat them as approximate.
type Stats struct {
	TotalMessages int    `json:"totalMessages"`
	YouCount      int    `json:"youCount"`
	ThemCount     int    `json:"themCount"`
	YouAvgLength  int    `json:"youAvgLength"`
	ThemAvgLength int    `json:"themAvgLength"`
	ReplyTimeGap  string `json:"replyTimeGap"`
}

// Sentiment score is 0-100, label one of the closed enum the model is told to use.
type Sentiment struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

type TrendPoint struct {
	MessageIndex int `json:"messageIndex"`
	Score        int `json:"score"`
}

type DominanceShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type ChartData struct {
	SentimentTrend []TrendPoint     `json:"sentimentTrend"`
	Dominance      []DominanceShare `json:"dominance"`
}

type TurningPoint struct {
	Message     string `json:"message"`
	Explanation string `json:"explanation"`
}

type CardStats struct {
	YapLevel     int `json:"yapLevel"`
	SimpScore    int `json:"simpScore"`
	CringeFactor int `json:"cringeFactor"`
	ChaosMeasure int `json:"chaosMeasure"`
}

// RPGCard is the per-participant character card.
type RPGCard struct {
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	Level    int       `json:"level"`
	OneLiner string    `json:"oneLiner"`
	Stats    CardStats `json:"stats"`
}

type SongRecommendation struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Reason string `json:"reason"`
}

// Result is the normalized output of one analysis. Every slice field is
// non-nil after normalization; TurningPoint is the only nullable field.
type Result struct {
	VibeHeadline        string               `json:"vibeHeadline"`
	Confidence          int                  `json:"confidence"`
	AnalysisID          string               `json:"analysisId,omitempty"`
	ShareID             string               `json:"shareId,omitempty"`
	IsPaid              bool                 `json:"isPaid"`
	Stats               Stats                `json:"stats"`
	Roast               string               `json:"roast"`
	Sentiment           Sentiment            `json:"sentiment"`
	ChartData           ChartData            `json:"chartData"`
	RedFlags            []string             `json:"redFlags"`
	RedFlagOverview     string               `json:"redFlagOverview"`
	GreenFlags          []string             `json:"greenFlags"`
	GreenFlagOverview   string               `json:"greenFlagOverview"`
	TurningPoint        *TurningPoint        `json:"turningPoint"`
	EffortBalance       string               `json:"effortBalance"`
	MovieAnalogy        string               `json:"movieAnalogy"`
	AttachmentStyle     string               `json:"attachmentStyle"`
	NextSteps           []string             `json:"nextSteps"`
	RPGCards            []RPGCard            `json:"rpgCards"`
	SongRecommendations []SongRecommendation `json:"songRecommendations"`
}

// StoredAnalysis is the KV document under analysis:<id>. The paid flag is
// flipped exactly once by the payment webhook; the result itself never changes.
type StoredAnalysis struct {
	IsPaid bool    `json:"isPaid"`
	Result *Result `json:"result"`
}
