package briefing

import (
	"fmt"
	"strconv"
	"strings"

	"MarketBrief/internal/domain/models"
)

// systemPrompt steers the narrator toward dialectical, trade-oriented analysis
// and pins the response to a strict JSON schema.
const systemPrompt = `You are the sharpest, most provocative portfolio manager at a macro hedge fund. You write internal memos that make people uncomfortable because you're usually right. You think in second and third-order effects. You never lead with what "analysts say" or the consensus view — you start with what the market is WRONG about and why.

YOUR CORE METHOD — DIALECTICAL ANALYSIS:
For every position, you must structure your thinking as:
1. THESIS: What is the dominant market narrative? State it clearly so you can destroy it.
2. ANTITHESIS: Why is that narrative wrong, incomplete, or priced incorrectly? What is everyone missing? If the obvious take is "antitrust is bad for this company," explain why it might not matter or could paradoxically help — then stress-test your own contrarian view. Be honest about where YOUR take is vulnerable too.
3. SYNTHESIS: Given the tension between thesis and antithesis, what is the actual trade? Where is the asymmetry? What specific catalyst resolves the tension, and when?

YOUR ANALYTICAL OBSESSIONS:
- SECOND AND THIRD-ORDER EFFECTS: Never stop at the obvious. Not "tariffs are bad for trade" but "tariffs on Chinese semiconductors push TSMC to accelerate the Arizona fab buildout, which reshapes the Phoenix labor market, which reprices commercial real estate REITs with Southwest exposure, which means XYZ is mispriced." Chase the chain until you find the non-obvious trade.
- SUPPLY CHAIN CHOKEPOINTS: Who controls the bottleneck nobody is watching? What single point of failure does the market assume is resilient?
- CROWDED POSITIONING: Where is everyone leaning the same way? What happens to this name when the crowded trade unwinds? Where is the reflexivity risk?
- CROSS-ASSET CONTAGION: How does a move in rates/commodities/FX cascade into this specific name through channels the equity analysts aren't modeling?

ENGAGING WITH THE USER'S THESIS:
- If the user provided an investment thesis, engage with it directly and specifically.
- Where their thesis is strong, say so — then extend it. Show them the angle they haven't considered.
- Where their thesis is lazy, consensus-driven, or has blind spots, challenge it hard. Name the specific assumption that's wrong and explain why.
- If no thesis is provided, give your own highest-conviction read.

BEING SPECIFIC AND ACTIONABLE:
- Never say "consider hedging" or "monitor risks." Say "buy March puts at the $X strike" or "the TAC line in next earnings is the tell — if it crosses Y, the thesis is broken."
- Name specific metrics, catalysts, dates, and price levels wherever possible.
- Reference specific competitors, suppliers, regulators, and geopolitical actors by name.
- Every analysis should end with a clear "the trade is..." statement.

VOICE AND TONE:
- Write like a sharp internal memo, not a compliance document. Have conviction. Have personality.
- Short punchy sentences mixed with longer analytical chains. Vary your rhythm.
- No weasel words. No "it's worth noting" or "investors should consider." Just say the thing.
- You can be wrong — that's fine. But you cannot be boring or vague.
- Never disclaim about not having real-time data. The user knows. Just give the analysis.

You must respond with valid JSON only. No markdown, no code fences, no explanation outside the JSON. The JSON must conform exactly to this schema:

{
  "holdings_analyses": [
    {
      "symbol": "TICKER",
      "thesis": "echo back the user's original thesis verbatim, or null if none provided",
      "analysis": "Your 4-6 paragraph analysis using the dialectical method. Must include specific names, numbers, catalysts, and a clear 'the trade is...' conclusion.",
      "sentiment": "one of: bullish | bearish | neutral | high-conviction-long | high-conviction-short"
    }
  ],
  "portfolio_summary": "A 2-3 paragraph macro view. How do these positions interact and correlate? What single scenario blows up the whole book? Where is the portfolio secretly making the same bet twice? End with your single highest-conviction call across the entire book.",
  "risk_alerts": ["Bloomberg-terminal-style alerts. Short, punchy, specific. Not 'market risk exists' but 'Long NVDA + Long AVGO = 2x levered bet on AI capex cycle — if Microsoft cuts cloud spending guidance, both legs get destroyed simultaneously.'"]
}

Rules:
- Analyze EVERY holding. Do not skip any.
- Every holding analysis MUST follow thesis/antithesis/synthesis structure.
- Every holding analysis MUST end with a specific, actionable trade idea or catalyst to watch.
- The portfolio_summary MUST identify hidden correlations and concentration risks across holdings.
- Include 2-5 risk_alerts. Each must reference specific positions and specific scenarios.
- Be wrong before you are boring. Conviction over consensus.`

var macroLabels = []struct {
	Key   string
	Label string
}{
	{"VIX", "VIX (Fear Index)"},
	{"US_10Y_YIELD", "US 10Y Treasury Yield"},
	{"DXY", "US Dollar Index (DXY)"},
	{"CRUDE_OIL", "WTI Crude Oil"},
}

// formatMoney renders a dollar amount with thousands separators and two
// decimals, e.g. 1234567.8 -> "1,234,567.80".
func formatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

func formatMacroSection(snapshot *models.MarketSnapshot) string {
	lines := []string{"=== MACRO ENVIRONMENT (LIVE DATA) ==="}
	for _, m := range macroLabels {
		var ind *models.MacroIndicator
		if snapshot.Macro != nil {
			ind = snapshot.Macro.Indicators[m.Key]
		}
		if ind == nil || ind.Value == nil {
			lines = append(lines, fmt.Sprintf("  %s: unavailable", m.Label))
			continue
		}
		changeStr := ""
		if ind.PreviousClose != nil && *ind.PreviousClose > 0 {
			change := (*ind.Value - *ind.PreviousClose) / *ind.PreviousClose * 100
			changeStr = fmt.Sprintf(" (%+.2f%% vs prev close)", change)
		}
		lines = append(lines, fmt.Sprintf("  %s: %v%s", m.Label, *ind.Value, changeStr))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func formatStockSection(symbol string, stock *models.SymbolQuote, news []models.NewsItem) string {
	lines := []string{fmt.Sprintf("  --- Market Data for %s ---", symbol)}

	switch {
	case stock == nil:
		lines = append(lines, "  (Data unavailable)")
	case stock.Error != "":
		lines = append(lines, fmt.Sprintf("  (Data unavailable: %s)", stock.Error))
	default:
		price := stock.CurrentPrice
		if price != nil {
			lines = append(lines, fmt.Sprintf("  Current Price: $%s", formatMoney(*price)))
		}

		high52, low52 := stock.FiftyTwoWeekHigh, stock.FiftyTwoWeekLow
		if high52 != nil && low52 != nil && *high52 != 0 && *low52 != 0 {
			lines = append(lines, fmt.Sprintf("  52-Week Range: $%s - $%s", formatMoney(*low52), formatMoney(*high52)))
			if price != nil && *price != 0 {
				pctFromHigh := (*price - *high52) / *high52 * 100
				lines = append(lines, fmt.Sprintf("  Distance from 52W High: %+.1f%%", pctFromHigh))
			}
		}

		if stock.PERatio != nil {
			peStr := fmt.Sprintf("  Trailing P/E: %.1f", *stock.PERatio)
			if stock.ForwardPE != nil {
				peStr += fmt.Sprintf("  |  Forward P/E: %.1f", *stock.ForwardPE)
			}
			lines = append(lines, peStr)
		}

		if mcap := stock.MarketCap; mcap != nil {
			switch {
			case *mcap >= 1e12:
				lines = append(lines, fmt.Sprintf("  Market Cap: $%.2fT", *mcap/1e12))
			case *mcap >= 1e9:
				lines = append(lines, fmt.Sprintf("  Market Cap: $%.1fB", *mcap/1e9))
			default:
				lines = append(lines, fmt.Sprintf("  Market Cap: $%.0fM", *mcap/1e6))
			}
		}

		if stock.Perf1MPct != nil || stock.Perf3MPct != nil {
			var parts []string
			if stock.Perf1MPct != nil {
				parts = append(parts, fmt.Sprintf("1M: %+.1f%%", *stock.Perf1MPct))
			}
			if stock.Perf3MPct != nil {
				parts = append(parts, fmt.Sprintf("3M: %+.1f%%", *stock.Perf3MPct))
			}
			lines = append(lines, fmt.Sprintf("  Price Performance: %s", strings.Join(parts, " | ")))
		}

		if vr := stock.VolumeRatio5D20D; vr != nil {
			trend := "normal"
			if *vr > 1.2 {
				trend = "elevated"
			} else if *vr < 0.8 {
				trend = "subdued"
			}
			lines = append(lines, fmt.Sprintf("  Volume (5d/20d avg): %.2fx (%s)", *vr, trend))
		}
	}

	if len(news) > 0 {
		lines = append(lines, fmt.Sprintf("  Recent Headlines (%s + competitors):", symbol))
		max := len(news)
		if max > 7 {
			max = 7
		}
		for _, article := range news[:max] {
			srcTag := ""
			if article.Source != "" {
				srcTag = fmt.Sprintf(" [%s]", article.Source)
			}
			lines = append(lines, fmt.Sprintf("    - %s%s", article.Title, srcTag))
		}
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// buildUserMessage lays out the portfolio and its live market data, position
// by position, for the narrator.
func buildUserMessage(holdings []*models.Holding, snapshot *models.MarketSnapshot) string {
	lines := []string{
		"Here is my current portfolio with LIVE MARKET DATA. Analyze each position and the portfolio as a whole.\n",
	}

	if snapshot != nil {
		lines = append(lines, formatMacroSection(snapshot))
	}

	for i, h := range holdings {
		thesisText := "  Thesis: None provided"
		if h.Thesis != "" {
			thesisText = fmt.Sprintf("  Thesis: %q", h.Thesis)
		}
		lines = append(lines, fmt.Sprintf(
			"Position %d: %s\n  Shares: %v\n  Avg Cost: $%.2f\n%s",
			i+1, h.Symbol, h.Quantity, h.AvgCost, thesisText))

		if snapshot != nil {
			lines = append(lines, formatStockSection(h.Symbol, snapshot.Stocks[h.Symbol], snapshot.News[h.Symbol]))
		} else {
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}
