package handler

import (
	"dmchat/internal/app/message"
	"dmchat/internal/app/realtime"
	"dmchat/internal/app/storage"
	"dmchat/internal/app/user"
	"dmchat/internal/configs"
)

// AppDeps bundles the collaborators the HTTP handlers need.
type AppDeps struct {
	Config         *configs.AppConfig
	Gateway        *realtime.Gateway
	Dispatcher     *realtime.Dispatcher
	Users          *user.Store
	Messages       *message.Store
	StorageService storage.StorageService
}
