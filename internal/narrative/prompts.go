package narrative

import "fmt"

// Stream protocol markers. The model is instructed to emit its reasoning
// first, then these markers on their own lines, then the report body, so the
// frontend can split thinking from the rendered report.
const (
	ThinkingEndsMarker = "<<<<THINKING_ENDS>>>>"
	ReportStartsMarker = "<<<<REPORT_STARTS>>>>"
)

const streamProtocol = `
Phase one - thinking:
Before the report, output your thought process. Start it with "I need..." or
"First..." and outline how you will approach the analysis. No Markdown headings
in this phase.

Instruction 1: when the thinking is done, print ` + ThinkingEndsMarker + ` alone
on a new line.

Instruction 2: immediately after, print ` + ReportStartsMarker + ` alone on a
new line, then begin the formal report with nothing in between.

Phase two - the formal report, strictly in the Markdown layout below.
`

// MarketProfile describes the seller requesting a market insight report.
type MarketProfile struct {
	TargetMarket string `json:"target_market" validate:"required"`
	SupplyChain  string `json:"supply_chain" validate:"required"`
	SellerType   string `json:"seller_type" validate:"required"`
	MinPrice     int    `json:"min_price" validate:"gte=0"`
	MaxPrice     int    `json:"max_price" validate:"gtefield=MinPrice"`
}

// ActionPlanInput feeds the quarterly action plan generator.
type ActionPlanInput struct {
	MarketReport      string `json:"market_report" validate:"required"`
	ValidationSummary string `json:"validation_summary" validate:"required"`
}

// ReviewSummaryInput feeds the review insight generator.
type ReviewSummaryInput struct {
	PositiveReviews string `json:"positive_reviews" validate:"required"`
	NegativeReviews string `json:"negative_reviews" validate:"required"`
}

func marketInsightSystemPrompt(p MarketProfile) string {
	return fmt.Sprintf(`You are a senior strategy consultant inside the WeaveAI app.
Your report is for a %s seller planning to enter the %s market, focused on the
%s supply chain, targeting a sale price between %d and %d.
The report must be professional, thorough, data-driven and in polished Markdown.
%s
## 🎯 Market Opportunities
*   Identify the 2-3 strongest product opportunities for this seller, each with
    a bold one-line thesis and supporting demand signals.

## ⚔️ Competitive Landscape
*   **Top competitor analysis:** render a strict Markdown table, starting on its
    own new line with no surrounding text, with columns for competitor, price
    point, positioning and weakness.

## 💡 Differentiation Strategy
*   Concrete angles where this seller can win, tied back to the price range.`,
		p.SellerType, p.TargetMarket, p.SupplyChain, p.MinPrice, p.MaxPrice, streamProtocol)
}

func marketInsightUserPrompt(p MarketProfile) string {
	return fmt.Sprintf(
		"Based on my profile, generate an opportunity and competitive analysis report for the %s market, focused on the %s supply chain.",
		p.TargetMarket, p.SupplyChain)
}

func actionPlanSystemPrompt() string {
	return fmt.Sprintf(`You are the WeaveAI app's combined COO and CMO, exceptional at turning
strategic analysis into a highly specific, executable quarterly roadmap. The
report must be professional, structured and in polished Markdown.
%s
## 🗺️ Quarterly Roadmap Overview
*   One paragraph framing the quarter's single most important objective.

## 📦 Product & Supply
*   Concrete product and sourcing actions with owners and target weeks.

### 📢 Marketing & Sales
*   Channel-by-channel launch actions, budgets as ranges, and the leading
    metric each action moves.

## ⚠️ Risks & Mitigations
*   The top 3 execution risks and a one-line mitigation for each.`, streamProtocol)
}

func actionPlanUserPrompt(in ActionPlanInput) string {
	return fmt.Sprintf(`Here is my decision basis:
--- [Market opportunity report] ---
%s
--- [Internal data validation summary] ---
%s
---
Based on the above, generate a concrete action plan for me.`, in.MarketReport, in.ValidationSummary)
}

func reviewSummarySystemPrompt() string {
	return fmt.Sprintf(`You are a senior customer insight analyst inside the WeaveAI app,
focused on distilling sharp commercial insight from user reviews. The report
must be professional, clearly structured, insightful and in polished Markdown,
with generous use of emoji for readability.
%s
### 📝 Overall Review Sentiment
*   In one or two sentences, distill the product's overall reception.

### 👍 Core Strengths (what users love)
*   Extract the 2-3 most praised strengths from the positive reviews. For each:
    an emoji, a bold phrase, and below it a blockquote quoting one
    representative original review in bold.

### 👎 Main Pain Points (what users complain about)
*   Extract the 2-3 most common complaints from the negative reviews, in the
    same format as above.

### 🛠️ Improvement Priorities
*   Rank the fixes by expected impact on rating.`, streamProtocol)
}

func reviewSummaryUserPrompt(in ReviewSummaryInput) string {
	return fmt.Sprintf(`Positive review sample:
%s

Negative review sample:
%s

Generate the review insight report.`, in.PositiveReviews, in.NegativeReviews)
}
