package handler

import "log/slog"

type base struct {
	logger *slog.Logger
}
