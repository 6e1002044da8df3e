package baidu

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Dev PIDs select the recognition model.
const (
	devPIDMandarin = 1537
	devPIDEnglish  = 1737

	SampleRate = 16000
)

// SpeechResult is the detailed outcome of one recognition request.
type SpeechResult struct {
	Text   string
	ErrNo  int
	ErrMsg string
}

type speechRequest struct {
	Format  string `json:"format"`
	Rate    int    `json:"rate"`
	DevPID  int    `json:"dev_pid"`
	Channel int    `json:"channel"`
	Token   string `json:"token"`
	CUID    string `json:"cuid"`
	Len     int    `json:"len"`
	Speech  string `json:"speech"`
}

type speechResponse struct {
	ErrNo  int      `json:"err_no"`
	ErrMsg string   `json:"err_msg"`
	Result []string `json:"result"`
}

func devPID(lang string) int {
	if lang == "en-US" {
		return devPIDEnglish
	}
	return devPIDMandarin
}

// RecognizeDetailed sends 16kHz mono 16-bit PCM and returns Baidu's answer
// as-is, including non-zero error numbers.
func (c *Client) RecognizeDetailed(ctx context.Context, pcm []byte, lang string) (SpeechResult, error) {
	token, err := c.token(c.speech)
	if err != nil {
		return SpeechResult{}, err
	}
	body, err := json.Marshal(speechRequest{
		Format:  "pcm",
		Rate:    SampleRate,
		DevPID:  devPID(lang),
		Channel: 1,
		Token:   token,
		CUID:    c.cfg.CUID,
		Len:     len(pcm),
		Speech:  base64.StdEncoding.EncodeToString(pcm),
	})
	if err != nil {
		return SpeechResult{}, fmt.Errorf("encoding speech request: %w", err)
	}

	var resp speechResponse
	if err := c.post(ctx, c.endpoints.Speech, "application/json", body, &resp); err != nil {
		return SpeechResult{}, err
	}
	res := SpeechResult{ErrNo: resp.ErrNo, ErrMsg: resp.ErrMsg}
	if len(resp.Result) > 0 {
		res.Text = strings.TrimSpace(resp.Result[0])
	}
	return res, nil
}

// Recognize returns the transcript, or ErrRecognition when Baidu reports
// an error or hears nothing.
func (c *Client) Recognize(ctx context.Context, pcm []byte, lang string) (string, error) {
	res, err := c.RecognizeDetailed(ctx, pcm, lang)
	if err != nil {
		return "", err
	}
	if res.ErrNo != 0 {
		return "", fmt.Errorf("%w: err_no %d: %s", ErrRecognition, res.ErrNo, res.ErrMsg)
	}
	if res.Text == "" {
		return "", fmt.Errorf("%w: empty result", ErrRecognition)
	}
	return res.Text, nil
}

// wavHeader is the canonical RIFF/WAVE prefix.
type wavHeader struct {
	RIFF          [4]byte
	ChunkSize     uint32
	WAVE          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// ReadPCM returns raw samples from r. A WAV stream must already be 16kHz
// mono 16-bit; its header is stripped. Anything else is taken as raw PCM.
func ReadPCM(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading audio: %w", err)
	}
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return data, nil
	}

	var h wavHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("reading wav header: %w", err)
	}
	if h.Channels != 1 || h.SampleRate != SampleRate || h.BitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported wav: %d channels, %d Hz, %d bits (need mono 16kHz 16-bit)",
			h.Channels, h.SampleRate, h.BitsPerSample)
	}

	// Walk chunks after "fmt " to find "data".
	off := 12 + 8 + int(h.FmtSize)
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		off += 8
		if id == "data" {
			end := min(off+size, len(data))
			return data[off:end], nil
		}
		off += size + size%2
	}
	return nil, fmt.Errorf("wav has no data chunk")
}
