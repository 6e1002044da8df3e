package nutrition

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/llm"
)

const (
	adviceSystemPrompt   = "你是一位营养助手，以简短可执行建议回复"
	estimateSystemPrompt = "你是一位营养师。只输出一个JSON对象，字段为calories、proteinG、carbsG、fatG、fiberG，单位为千卡或克。"

	// AdviceFailed is shown when the model produced nothing usable.
	AdviceFailed = "生成失败，请检查网络或密钥配置"
)

// Advisor asks a chat completion model for nutrition advice.
type Advisor struct {
	llm llm.Completer
}

func NewAdvisor(c llm.Completer) *Advisor {
	return &Advisor{llm: c}
}

// AdvicePrompt is the user message describing the day's intake.
func AdvicePrompt(t domain.NutrientTotals) string {
	return fmt.Sprintf("请基于用户今天的营养摄入（卡路里=%d，蛋白=%dg，碳水=%dg，脂肪=%dg，纤维=%dg）给出3条简明的饮食建议。",
		t.Calories, grams(t.Protein), grams(t.Carbs), grams(t.Fat), grams(t.Fiber))
}

func grams(v float64) int { return int(math.Round(v)) }

// Advise returns three short suggestions for the day's totals. An empty
// reply becomes AdviceFailed; transport errors are returned.
func (a *Advisor) Advise(ctx context.Context, t domain.NutrientTotals) (string, error) {
	text, err := a.llm.Complete(ctx, llm.TaskNutrition, []llm.Message{
		llm.System(adviceSystemPrompt),
		llm.User(AdvicePrompt(t)),
	})
	if err != nil {
		if errors.Is(err, llm.ErrEmptyReply) {
			return AdviceFailed, nil
		}
		return "", fmt.Errorf("generating nutrition advice: %w", err)
	}
	return text, nil
}

// Estimate is a model-estimated nutrient breakdown for a list of foods.
type Estimate struct {
	Calories float64 `json:"calories" validate:"gte=0,lte=10000"`
	ProteinG float64 `json:"proteinG" validate:"gte=0,lte=1000"`
	CarbsG   float64 `json:"carbsG" validate:"gte=0,lte=2000"`
	FatG     float64 `json:"fatG" validate:"gte=0,lte=1000"`
	FiberG   float64 `json:"fiberG" validate:"gte=0,lte=500"`
}

// Estimate asks the model for calories and macros of foods.
func (a *Advisor) Estimate(ctx context.Context, foods []string) (Estimate, error) {
	if len(foods) == 0 {
		return Estimate{}, fmt.Errorf("estimating meal: no foods given")
	}
	raw, err := a.llm.Complete(ctx, llm.TaskMealEstimate, []llm.Message{
		llm.System(estimateSystemPrompt),
		llm.User("估算以下食物的营养成分：" + strings.Join(foods, "、")),
	})
	if err != nil {
		return Estimate{}, fmt.Errorf("estimating meal: %w", err)
	}
	est, err := llm.DecodeReply[Estimate](raw)
	if err != nil {
		return Estimate{}, fmt.Errorf("estimating meal: %w", err)
	}
	return est, nil
}

// Input converts an estimate into a MealInput for foods.
func (e Estimate) Input(t domain.MealType, foods []string) MealInput {
	return MealInput{
		Type:     t,
		Foods:    strings.Join(foods, "、"),
		Calories: int(math.Round(e.Calories)),
		FiberG:   e.FiberG,
		CarbsG:   e.CarbsG,
		FatG:     e.FatG,
		ProteinG: e.ProteinG,
	}
}
