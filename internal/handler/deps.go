package handler

import (
	"minichat/internal/app/chat"
	"minichat/internal/configs"
)

type AppDeps struct {
	Hub    *chat.Hub
	Config *configs.AppConfig
}
