package baidu

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/alexanderramin/pulse/internal/domain"
)

// DefaultTopN is the number of dish candidates requested.
const DefaultTopN = 5

// looseFloat accepts a JSON number or a numeric string.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing number %s: %w", b, err)
	}
	*f = looseFloat(v)
	return nil
}

type dishResponse struct {
	Result []struct {
		Name        string     `json:"name"`
		Probability looseFloat `json:"probability"`
		Calorie     looseFloat `json:"calorie"`
		HasCalorie  bool       `json:"has_calorie"`
	} `json:"result"`
	ErrorCode *int   `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// RecognizeDish classifies a base64 encoded food photo.
func (c *Client) RecognizeDish(ctx context.Context, imageBase64 string, topN int) ([]domain.DishGuess, error) {
	token, err := c.token(c.vision)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	form := url.Values{
		"image":   {imageBase64},
		"top_num": {strconv.Itoa(topN)},
	}
	endpoint := c.endpoints.Dish + "?" + url.Values{"access_token": {token}}.Encode()

	var resp dishResponse
	if err := c.post(ctx, endpoint, "application/x-www-form-urlencoded", []byte(form.Encode()), &resp); err != nil {
		return nil, err
	}
	if resp.ErrorCode != nil {
		return nil, fmt.Errorf("%w: error %d: %s", ErrRecognition, *resp.ErrorCode, resp.ErrorMsg)
	}

	guesses := make([]domain.DishGuess, 0, len(resp.Result))
	for _, r := range resp.Result {
		guesses = append(guesses, domain.DishGuess{
			Name:        r.Name,
			Probability: float64(r.Probability),
			Calorie:     float64(r.Calorie),
			HasCalorie:  r.HasCalorie,
		})
	}
	return guesses, nil
}
