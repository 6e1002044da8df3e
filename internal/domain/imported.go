package domain

// ImportedRecord is one parsed row of a user-supplied file. Only the
// fields relevant to the chosen ImportType are set.
type ImportedRecord struct {
	Date       string
	Steps      *int
	SleepHours *float64
	HeartRate  *int
	WeightKg   *float64
	WaterMl    *int
	Mood       string
	MoodNote   string
	MoodScore  *int
}

// SaveResult counts rows persisted per type.
type SaveResult struct {
	Steps     int
	HeartRate int
	Sleep     int
	Weight    int
	Water     int
	Mood      int
}

func (r SaveResult) Total() int {
	return r.Steps + r.HeartRate + r.Sleep + r.Weight + r.Water + r.Mood
}
