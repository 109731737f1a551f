package main

import (
	"log/slog"
	"os"

	"forestwatch-sim/internal/dashboard"
)

func main() {
	if err := dashboard.Render("build"); err != nil {
		slog.Error("render dashboards", "err", err)
		os.Exit(1)
	}
}
