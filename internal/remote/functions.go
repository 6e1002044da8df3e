package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/alexanderramin/pulse/internal/domain"
)

func (c *Client) invoke(ctx context.Context, name string, body, out any) error {
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/functions/v1/" + name,
		body:   body,
		auth:   authOptional,
	}, out)
	if err != nil {
		return fmt.Errorf("invoking %s: %w", name, err)
	}
	return nil
}

type aggregatesResponse struct {
	StepsTotal float64 `json:"stepsTotal"`
	WaterTotal float64 `json:"waterTotal"`
	SleepAvg   float64 `json:"sleepAvg"`
}

// HealthAggregates asks the backend for totals over the last rangeDays.
func (c *Client) HealthAggregates(ctx context.Context, rangeDays int) (domain.Aggregates, error) {
	var out aggregatesResponse
	if err := c.invoke(ctx, "health-aggregates", map[string]int{"rangeDays": rangeDays}, &out); err != nil {
		return domain.Aggregates{}, err
	}
	return domain.Aggregates{
		RangeDays:  rangeDays,
		StepsTotal: int(out.StepsTotal),
		WaterTotal: int(out.WaterTotal),
		SleepAvg:   out.SleepAvg,
	}, nil
}

// foodList accepts either a JSON array of names or a single string.
type foodList []string

func (f *foodList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*f = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("foods must be a string or list: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*f = nil
		return nil
	}
	*f = foodList{s}
	return nil
}

type foodResponse struct {
	Foods    foodList `json:"foods"`
	Calories *float64 `json:"calories"`
	FiberG   *float64 `json:"fiberG"`
	CarbsG   *float64 `json:"carbsG"`
	FatG     *float64 `json:"fatG"`
	ProteinG *float64 `json:"proteinG"`
}

// RecognizeFood sends a base64 image to the food recognition function.
func (c *Client) RecognizeFood(ctx context.Context, imageBase64 string) (domain.FoodRecognition, error) {
	var out foodResponse
	if err := c.invoke(ctx, "food-recognize", map[string]string{"image_base64": imageBase64}, &out); err != nil {
		return domain.FoodRecognition{}, err
	}
	return domain.FoodRecognition{
		Foods:    out.Foods,
		Calories: out.Calories,
		FiberG:   out.FiberG,
		CarbsG:   out.CarbsG,
		FatG:     out.FatG,
		ProteinG: out.ProteinG,
	}, nil
}
