package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bottleflow/internal/database"
	"bottleflow/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the BottleFlow assistant for a bottle recycling operation.

	RULES:
	1. STOCK: If a user asks about raw stock, washed stock, reserved bottles or any product details:
	   - You MUST call 'check_stock' to get the full list.
	   - Then read the JSON to find the specific item and answer the user.
	2. SALARIES: If the user asks who is owed money or how much a worker is owed, use 'pending_salaries'.
	3. EXPENSES: If the user asks about spending, purchases or salary payouts, use 'get_expense_report'.

	USER: %s`, today, userMessage)

	// --- DEFINE TOOLS ---
	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_stock",
					Description: "Get the stock overview for every product: raw, reserved and washed counts plus prices.",
				},
				{
					Name:        "pending_salaries",
					Description: "List every worker with an unpaid salary balance.",
				},
				{
					Name:        "get_expense_report",
					Description: "Get total purchase and salary spend for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	// --- HANDLE TOOL CALLS ---
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {

			// TOOL 1: Stock overview
			if funcCall.Name == "check_stock" {
				toolResp := genai.FunctionResponse{
					Name:     "check_stock",
					Response: map[string]interface{}{"stock": stockOverviewJSON()},
				}
				finalResp, err := session.SendMessage(ctx, toolResp)
				if err != nil {
					return "", err
				}
				return printResponse(finalResp), nil
			}

			// TOOL 2: Pending salaries
			if funcCall.Name == "pending_salaries" {
				return executePendingSalaries(ctx, session), nil
			}

			// TOOL 3: Expense report
			if funcCall.Name == "get_expense_report" {
				return executeExpenseReport(ctx, session, funcCall), nil
			}
		}
	}

	return printResponse(resp), nil
}

// GenerateDailyReport asks Gemini to write the daily report email from
// today's numbers.
func GenerateDailyReport(apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	dayStart := time.Now().Truncate(24 * time.Hour)
	expenses, err := database.GetExpenseReport(dayStart, time.Now())
	if err != nil {
		return "", err
	}
	pending, err := database.GetPendingSalaries(false)
	if err != nil {
		return "", err
	}
	pendingJSON, _ := json.Marshal(pending)

	prompt := fmt.Sprintf(`You write the daily operations report for BottleFlow, a bottle recycling business.
Write a short plain-text email body (no markdown) summarising today, %s.

Today's numbers:
- Purchases: $%.2f across %d purchase(s)
- Salary payouts: $%.2f across %d payment(s)
- Current stock overview (JSON): %s
- Workers still owed money (JSON): %s

Keep it under 200 words, friendly but factual.`,
		time.Now().Format("Monday, 02 Jan 2006"),
		expenses.PurchaseTotal, expenses.PurchaseCount,
		expenses.SalaryTotal, expenses.PaymentCount,
		stockOverviewJSON(), string(pendingJSON))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return printResponse(resp), nil
}

// --- HELPER FUNCTIONS ---

func stockOverviewJSON() string {
	var products []models.Product
	database.DB.Find(&products)

	type SimpleStock struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Raw      int     `json:"raw"`
		Reserved int     `json:"reserved"`
		Washed   int     `json:"washed"`
		WashRate float64 `json:"wash_price"`
	}
	var list []SimpleStock
	for _, p := range products {
		var rec models.StockRecord
		database.DB.First(&rec, "product_id = ?", p.ID)
		list = append(list, SimpleStock{
			ID:       p.ID,
			Name:     p.Name,
			Raw:      rec.AvailableRaw(),
			Reserved: rec.Reserved,
			Washed:   rec.Balance,
			WashRate: p.WashPrice,
		})
	}

	jsonBytes, _ := json.Marshal(list)
	return string(jsonBytes)
}

func executePendingSalaries(ctx context.Context, session *genai.ChatSession) string {
	rows, err := database.GetPendingSalaries(false)
	if err != nil {
		return "Error computing pending salaries."
	}
	jsonBytes, _ := json.Marshal(rows)

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "pending_salaries",
		Response: map[string]interface{}{"workers": string(jsonBytes)},
	})
	return printResponse(finalResp)
}

func executeExpenseReport(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	startStr := args["start_date"].(string)
	endStr := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)

	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := database.GetExpenseReport(start, end)
	if err != nil {
		return "Error calculating expenses."
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_expense_report",
		Response: map[string]interface{}{
			"purchase_total": report.PurchaseTotal,
			"purchase_count": report.PurchaseCount,
			"salary_total":   report.SalaryTotal,
			"payment_count":  report.PaymentCount,
		},
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
