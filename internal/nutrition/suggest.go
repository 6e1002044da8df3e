package nutrition

import (
	"fmt"

	"github.com/alexanderramin/pulse/internal/domain"
)

const (
	// CupMl is the volume of one water cup.
	CupMl = 200

	calorieSurplus = 200
	carbsCeiling   = 300
	waterFloorMl   = 1500
)

// Suggestions returns rule-based advice for the day. At least one line is
// always returned.
func Suggestions(t domain.NutrientTotals, targets domain.NutritionTargets, cups int) []string {
	var out []string
	switch {
	case t.Calories < targets.Calories:
		out = append(out, "今日摄入低于目标，适当补充优质蛋白与复合碳水")
	case t.Calories > targets.Calories+calorieSurplus:
		out = append(out, "卡路里偏高，减少高糖高脂食物，增加蔬果与粗粮")
	}
	if t.Protein < targets.Protein {
		out = append(out, "蛋白质偏低，建议增加鸡胸肉、鱼类、豆制品")
	}
	if t.Fiber < targets.Fiber {
		out = append(out, "膳食纤维不足，增加全谷物、蔬菜与水果")
	}
	if t.Fat > targets.Fat {
		out = append(out, "脂肪偏高，减少油炸食品，选择橄榄油与坚果")
	}
	if t.Carbs > carbsCeiling {
		out = append(out, "碳水略高，晚餐控制主食分量，选择低GI食物")
	}
	if cups*CupMl < waterFloorMl {
		out = append(out, fmt.Sprintf("今日饮水不足，建议达到 %dml，分批次饮用", targets.WaterMl))
	}
	if len(out) == 0 {
		out = append(out, "营养摄入较均衡，保持规律饮食与充足饮水")
	}
	return out
}

// MaxCups is the number of cups that reaches targetMl.
func MaxCups(targetMl int) int {
	if targetMl <= 0 {
		return 0
	}
	return targetMl / CupMl
}

// ClampCups keeps n within [0, MaxCups(targetMl)].
func ClampCups(n, targetMl int) int {
	return max(0, min(n, MaxCups(targetMl)))
}
