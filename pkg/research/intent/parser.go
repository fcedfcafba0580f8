package intent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/pkg/llm"
	"inzite-research-be/pkg/research/state"
)

const module = "IntentParser"

var domains = []string{
	"health", "education", "finance", "travel", "food",
	"fitness", "pet", "real estate", "transportation",
	"ai", "mental health", "agriculture", "gaming",
	"retail", "sustainability",
}

var techTerms = []string{
	"ai", "machine learning", "blockchain", "nlp", "data analytics",
	"ar", "vr", "iot", "chatbot", "llm", "neural network",
}

type intentPattern struct {
	name string
	re   *regexp.Regexp
}

// Checked in order, first match wins.
var intentPatterns = []intentPattern{
	{name: "compare", re: regexp.MustCompile(`(?i)(compare|vs|difference|better than)`)},
	{name: "trend", re: regexp.MustCompile(`(?i)(trend|market|growth|statistics)`)},
	{name: "tech", re: regexp.MustCompile(`(?i)(technology|innovation|research|paper)`)},
	{name: "idea", re: regexp.MustCompile(`(?i)(idea|startup|launch|build)`)},
}

var competitorRegex = regexp.MustCompile(`[A-Z][a-zA-Z]+(?:\s[A-Z][a-zA-Z]+)?`)

// Parser turns a raw idea into IntentMetadata. The LLM path is optional; the rule engine
// always produces a fully populated result.
type Parser struct {
	llm    llm.LLMProvider
	logger logger.ILogger
}

// NewParser accepts a nil provider to run rules only.
func NewParser(provider llm.LLMProvider, log logger.ILogger) *Parser {
	return &Parser{llm: provider, logger: log}
}

func (p *Parser) Parse(ctx context.Context, query string) *state.IntentMetadata {
	rules := ParseWithRules(query)
	if p.llm == nil {
		return rules
	}

	parsed, err := p.parseWithLLM(ctx, query)
	if err != nil {
		p.logger.Warn(module, "LLM parsing failed, falling back to rules", map[string]interface{}{"error": err.Error()})
		return rules
	}

	fillMissing(parsed, rules)
	p.logger.Info(module, "Intent parsed with LLM", map[string]interface{}{"intent_type": parsed.IntentType})
	return parsed
}

func (p *Parser) parseWithLLM(ctx context.Context, query string) (*state.IntentMetadata, error) {
	raw, err := p.llm.Generate(ctx, buildPrompt(query), llm.WithJSON(), llm.WithTemperature(0.1))
	if err != nil {
		return nil, err
	}

	var parsed state.IntentMetadata
	if err := llm.ExtractJSON(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}
	parsed.RawQuery = query
	parsed.Source = "llm"
	return &parsed, nil
}

func buildPrompt(query string) string {
	return fmt.Sprintf(`You are an expert intent parser for a startup research assistant.
Analyze the following user query and extract structured intent.

USER QUERY: %q

Return a JSON object with the following schema:
{
    "industry": "string (e.g., AI, SaaS, E-commerce)",
    "target_audience": "string",
    "problem_statement": "string",
    "intent_type": "string (one of: market_research, competitor_analysis, trend_analysis, technical_research)",
    "complexity_level": "string (low, medium, high)",
    "agent_triggers": ["list of agents to trigger (competitor_scout, trend_scraper, tech_paper_miner)"]
}`, query)
}

// fillMissing copies rule-derived values into every empty field of parsed.
func fillMissing(parsed, rules *state.IntentMetadata) {
	setIfEmpty := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = src
		}
	}
	setIfEmpty(&parsed.Industry, rules.Industry)
	setIfEmpty(&parsed.TargetAudience, rules.TargetAudience)
	setIfEmpty(&parsed.ProblemStatement, rules.ProblemStatement)
	setIfEmpty(&parsed.IntentType, rules.IntentType)
	setIfEmpty(&parsed.ComplexityLevel, rules.ComplexityLevel)
	setIfEmpty(&parsed.BusinessModel, rules.BusinessModel)

	if len(parsed.AgentTriggers) == 0 {
		parsed.AgentTriggers = rules.AgentTriggers
	}
	if parsed.TechKeywords == nil {
		parsed.TechKeywords = rules.TechKeywords
	}
	if parsed.CompetitorNames == nil {
		parsed.CompetitorNames = rules.CompetitorNames
	}
	if parsed.DataNeeds == nil {
		parsed.DataNeeds = []string{}
	}
}

// ParseWithRules is the deterministic fallback. It never fails.
func ParseWithRules(text string) *state.IntentMetadata {
	lower := strings.ToLower(text)

	industry := "general"
	for _, d := range domains {
		if strings.Contains(lower, d) {
			industry = d
			break
		}
	}

	tech := []string{}
	for _, t := range techTerms {
		if strings.Contains(lower, t) {
			tech = append(tech, t)
		}
	}

	intentType := "idea"
	for _, p := range intentPatterns {
		if p.re.MatchString(lower) {
			intentType = p.name
			break
		}
	}

	competitors := []string{}
	for _, m := range competitorRegex.FindAllString(text, -1) {
		if len(m) > 3 {
			competitors = append(competitors, m)
		}
	}

	problem := text
	if strings.TrimSpace(problem) == "" {
		problem = "unknown"
	}

	return &state.IntentMetadata{
		Industry:         industry,
		BusinessModel:    inferBusinessModel(lower),
		TargetAudience:   inferAudience(lower),
		TechKeywords:     tech,
		CompetitorNames:  competitors,
		IntentType:       intentType,
		ProblemStatement: problem,
		SolutionSummary:  "",
		DataNeeds:        []string{},
		AgentTriggers:    []string{"trend_scraper", "competitor_scout", "tech_paper_miner"},
		ComplexityLevel:  "medium",
		RawQuery:         text,
		Source:           "rules",
	}
}

func inferBusinessModel(text string) string {
	switch {
	case strings.Contains(text, "platform"):
		return "Platform"
	case strings.Contains(text, "app"):
		return "Mobile App"
	case strings.Contains(text, "service"):
		return "Service"
	case strings.Contains(text, "tool"), strings.Contains(text, "software"):
		return "SaaS"
	case strings.Contains(text, "marketplace"):
		return "Marketplace"
	}
	return "General"
}

func inferAudience(text string) string {
	switch {
	case strings.Contains(text, "student"):
		return "Students"
	case strings.Contains(text, "developer"), strings.Contains(text, "engineer"):
		return "Developers"
	case strings.Contains(text, "business"), strings.Contains(text, "startup"):
		return "Businesses"
	case strings.Contains(text, "doctor"), strings.Contains(text, "patient"):
		return "Healthcare Users"
	}
	return "General Audience"
}
