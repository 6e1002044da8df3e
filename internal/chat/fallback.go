package chat

import (
	"strconv"
	"strings"
)

const (
	lowStepsThreshold = 6000
	highHeartRate     = 95
)

// Fallback answers from fixed rules when no chat provider is configured.
// The first matching topic wins.
func Fallback(input string, vars map[string]string) string {
	steps, _ := strconv.Atoi(vars[VarAvgSteps])
	bpm, _ := strconv.Atoi(vars[VarLastHeart])

	switch {
	case containsAny(input, "运动", "锻炼"):
		add := "保持当前运动量，并加入力量训练提升心肺耐力。"
		if steps < lowStepsThreshold {
			add = "本周步数偏低，建议每天增加20-30分钟快走。"
		}
		return "建议进行30分钟中等强度运动，如快走或骑行。" + add
	case containsAny(input, "饮食", "食谱"):
		return "推荐清淡均衡饮食：早餐燕麦水果，午餐鸡胸蔬菜沙拉，晚餐蒸鱼配糙米。"
	case containsAny(input, "睡眠", "作息"):
		return "保持固定作息，睡前避免电子设备，营造安静、凉爽的睡眠环境。"
	case containsAny(input, "心率", "心脏"):
		if bpm > highHeartRate {
			return "当前静息心率偏高，建议减压与规律运动，并关注咖啡因摄入。"
		}
		return "静息心率稳定，维持规律有氧运动与充足睡眠。"
	default:
		return "我可以根据你的数据提供运动、营养、睡眠等建议，请具体说明你的问题。"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
