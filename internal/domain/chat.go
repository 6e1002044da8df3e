package domain

import "time"

// Greeting is the first assistant message of a new conversation.
const Greeting = "你好，我是你的AI健康助手。可以咨询运动、饮食、睡眠等问题。"

type ChatMessage struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatReply struct {
	Text   string
	Source ChatSource
}
