package nutrition

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/llm"
	"github.com/alexanderramin/pulse/internal/testutil"
)

func TestParseGrams(t *testing.T) {
	cases := map[string]float64{
		"12g":   12,
		" 8G ":  8,
		"3.5g":  3.5,
		"20":    20,
		"":      0,
		"abc":   0,
		"12 mg": 0,
		"-5g":   0,
		"NaN":   0,
		"infg":  0,
		"-Inf":  0,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseGrams(in), "input %q", in)
	}
}

func TestTotals_SumsEachNutrientIgnoringMalformed(t *testing.T) {
	meals := []domain.Meal{
		*testutil.NewTestMeal([]string{"燕麦"}, testutil.WithCalories(300),
			testutil.WithNutrient(domain.NutrientFiber, "8g"),
			testutil.WithNutrient(domain.NutrientCarbs, "50g"),
			testutil.WithNutrient(domain.NutrientProtein, "10g")),
		*testutil.NewTestMeal([]string{"鸡胸"}, testutil.WithCalories(450),
			testutil.WithNutrient(domain.NutrientProtein, " 35G "),
			testutil.WithNutrient(domain.NutrientFat, "lots"),
			testutil.WithNutrient("钠", "900g")),
		*testutil.NewTestMeal([]string{"水果"}, testutil.WithCalories(120),
			testutil.WithNutrient(domain.NutrientFiber, "4.5g")),
		*testutil.NewTestMeal([]string{"酸奶"}, testutil.WithCalories(0),
			testutil.WithNutrient(domain.NutrientProtein, "NaN"),
			testutil.WithNutrient(domain.NutrientFat, "infg")),
	}

	got := Totals(meals)
	assert.Equal(t, 870, got.Calories)
	assert.Equal(t, 45.0, got.Protein)
	assert.Equal(t, 50.0, got.Carbs)
	assert.Equal(t, 0.0, got.Fat)
	assert.Equal(t, 12.5, got.Fiber)

	assert.Equal(t, domain.NutrientTotals{}, Totals(nil))
}

func TestSuggestions(t *testing.T) {
	targets := domain.DefaultTargets()

	low := Suggestions(domain.NutrientTotals{Calories: 1200}, targets, 2)
	assert.Equal(t, []string{
		"今日摄入低于目标，适当补充优质蛋白与复合碳水",
		"蛋白质偏低，建议增加鸡胸肉、鱼类、豆制品",
		"膳食纤维不足，增加全谷物、蔬菜与水果",
		"今日饮水不足，建议达到 2000ml，分批次饮用",
	}, low)

	high := Suggestions(domain.NutrientTotals{Calories: 2300, Protein: 80, Fiber: 30, Fat: 90, Carbs: 320}, targets, 8)
	assert.Equal(t, []string{
		"卡路里偏高，减少高糖高脂食物，增加蔬果与粗粮",
		"脂肪偏高，减少油炸食品，选择橄榄油与坚果",
		"碳水略高，晚餐控制主食分量，选择低GI食物",
	}, high)

	balanced := Suggestions(domain.NutrientTotals{Calories: 2100, Protein: 70, Fiber: 26, Fat: 60, Carbs: 240}, targets, 8)
	assert.Equal(t, []string{"营养摄入较均衡，保持规律饮食与充足饮水"}, balanced)
}

func TestClampCups(t *testing.T) {
	assert.Equal(t, 10, MaxCups(2000))
	assert.Equal(t, 0, ClampCups(-1, 2000))
	assert.Equal(t, 4, ClampCups(4, 2000))
	assert.Equal(t, 10, ClampCups(14, 2000))
	assert.Equal(t, 0, ClampCups(3, 0))
}

func TestNewMeal(t *testing.T) {
	now := time.Date(2024, 5, 1, 7, 45, 0, 0, time.Local)
	m, err := NewMeal(MealInput{Foods: "燕麦，牛奶、 香蕉", Calories: 420, FiberG: 6, ProteinG: 18.5}, now)
	require.NoError(t, err)
	assert.Equal(t, domain.MealBreakfast, m.Type)
	assert.Equal(t, "07:45", m.Time)
	assert.Equal(t, []string{"燕麦", "牛奶", "香蕉"}, m.Foods)
	assert.Equal(t, map[string]string{
		domain.NutrientFiber:   "6g",
		domain.NutrientProtein: "18.5g",
	}, m.Nutrients)

	_, err = NewMeal(MealInput{Type: domain.MealLunch, Foods: " , "}, now)
	assert.Error(t, err)

	_, err = NewMeal(MealInput{Type: domain.MealLunch, Foods: "米饭", Calories: -1}, now)
	assert.Error(t, err)
}

func TestMealTypeAt(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2024, 1, 1, h, 0, 0, 0, time.Local) }
	assert.Equal(t, domain.MealBreakfast, MealTypeAt(at(8)))
	assert.Equal(t, domain.MealLunch, MealTypeAt(at(12)))
	assert.Equal(t, domain.MealDinner, MealTypeAt(at(19)))
	assert.Equal(t, domain.MealSnack, MealTypeAt(at(16)))
	assert.Equal(t, domain.MealSnack, MealTypeAt(at(23)))
}

type stubCompleter struct {
	reply string
	err   error
	task  llm.TaskType
	msgs  []llm.Message
}

func (s *stubCompleter) Complete(_ context.Context, task llm.TaskType, msgs []llm.Message) (string, error) {
	s.task = task
	s.msgs = msgs
	return s.reply, s.err
}

func TestAdvisor_Advise(t *testing.T) {
	stub := &stubCompleter{reply: "1. 多吃蔬菜"}
	a := NewAdvisor(stub)

	got, err := a.Advise(context.Background(), domain.NutrientTotals{Calories: 1500, Protein: 40.4, Carbs: 180, Fat: 50, Fiber: 12.6})
	require.NoError(t, err)
	assert.Equal(t, "1. 多吃蔬菜", got)
	assert.Equal(t, llm.TaskNutrition, stub.task)
	require.Len(t, stub.msgs, 2)
	assert.Equal(t, "你是一位营养助手，以简短可执行建议回复", stub.msgs[0].Content)
	assert.Equal(t,
		"请基于用户今天的营养摄入（卡路里=1500，蛋白=40g，碳水=180g，脂肪=50g，纤维=13g）给出3条简明的饮食建议。",
		stub.msgs[1].Content)
}

func TestAdvisor_AdviseFailures(t *testing.T) {
	got, err := NewAdvisor(&stubCompleter{err: llm.ErrEmptyReply}).Advise(context.Background(), domain.NutrientTotals{})
	require.NoError(t, err)
	assert.Equal(t, AdviceFailed, got)

	_, err = NewAdvisor(&stubCompleter{err: llm.ErrMissingKey}).Advise(context.Background(), domain.NutrientTotals{})
	assert.ErrorIs(t, err, llm.ErrMissingKey)
}

func TestAdvisor_Estimate(t *testing.T) {
	stub := &stubCompleter{reply: "```json\n{\"calories\": 512.6, \"proteinG\": 30, \"carbsG\": 60, \"fatG\": 12, \"fiberG\": .5}\n```"}
	est, err := NewAdvisor(stub).Estimate(context.Background(), []string{"米饭", "鸡腿"})
	require.NoError(t, err)
	assert.Equal(t, llm.TaskMealEstimate, stub.task)
	assert.Contains(t, stub.msgs[1].Content, "米饭、鸡腿")
	assert.Equal(t, 0.5, est.FiberG)

	in := est.Input(domain.MealLunch, []string{"米饭", "鸡腿"})
	assert.Equal(t, 513, in.Calories)
	m, err := NewMeal(in, time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, "30g", m.Nutrients[domain.NutrientProtein])
}

func TestAdvisor_EstimateErrors(t *testing.T) {
	_, err := NewAdvisor(&stubCompleter{}).Estimate(context.Background(), nil)
	assert.Error(t, err)

	_, err = NewAdvisor(&stubCompleter{reply: "不知道"}).Estimate(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)

	_, err = NewAdvisor(&stubCompleter{reply: `{"calories": -5}`}).Estimate(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)

	boom := errors.New("boom")
	_, err = NewAdvisor(&stubCompleter{err: boom}).Estimate(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, boom)
}
