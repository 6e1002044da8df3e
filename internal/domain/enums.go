package domain

type MetricKind string

const (
	MetricHeartRate  MetricKind = "heart_rate"
	MetricSteps      MetricKind = "steps"
	MetricWeight     MetricKind = "weight"
	MetricWater      MetricKind = "water"
	MetricSleep      MetricKind = "sleep"
	MetricMood       MetricKind = "mood"
	MetricMeditation MetricKind = "meditation"
	MetricStress     MetricKind = "stress"
)

// ValidMetricKinds lists every kind accepted by the metrics commands.
var ValidMetricKinds = []MetricKind{
	MetricHeartRate, MetricSteps, MetricWeight, MetricWater,
	MetricSleep, MetricMood, MetricMeditation, MetricStress,
}

func (k MetricKind) IsValid() bool {
	for _, v := range ValidMetricKinds {
		if k == v {
			return true
		}
	}
	return false
}

// ImportType is one of the six fixed shapes an imported file maps into.
type ImportType string

const (
	ImportSteps     ImportType = "steps"
	ImportHeartRate ImportType = "heart_rate"
	ImportSleep     ImportType = "sleep"
	ImportWeight    ImportType = "weight"
	ImportWater     ImportType = "water"
	ImportMood      ImportType = "mood"
)

var ValidImportTypes = []ImportType{
	ImportSteps, ImportHeartRate, ImportSleep, ImportWeight, ImportWater, ImportMood,
}

func ParseImportType(s string) (ImportType, bool) {
	for _, t := range ValidImportTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// TrackerState is the lifecycle of a monitoring session.
type TrackerState string

const (
	TrackerIdle   TrackerState = "idle"
	TrackerActive TrackerState = "active"
	TrackerEnded  TrackerState = "ended"
)

type SleepStage string

const (
	StagePreparing SleepStage = "准备中"
	StageLight     SleepStage = "浅睡眠"
	StageDeep      SleepStage = "深睡眠"
	StageREM       SleepStage = "快速眼动"
	StageAwake     SleepStage = "清醒"
	StageEnded     SleepStage = "已结束"
)

type BreathPhase string

const (
	BreathIn  BreathPhase = "吸气"
	BreathOut BreathPhase = "呼气"
)

type ChatSource string

const (
	SourceDify      ChatSource = "dify"
	SourceDifyError ChatSource = "dify_error"
	SourceSpark     ChatSource = "spark"
	SourceFallback  ChatSource = "fallback"
)

type MealType string

const (
	MealBreakfast MealType = "早餐"
	MealLunch     MealType = "午餐"
	MealDinner    MealType = "晚餐"
	MealSnack     MealType = "加餐"
)
