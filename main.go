package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/barcodeanalyzer/analyzer"
)

func main() {
	fyneApp := app.NewWithID(fyneAppID)
	win := fyneApp.NewWindow(windowTitle)
	win.Resize(fyne.NewSize(1100, 720))

	cfg, err := analyzer.LoadConfig("")
	if err != nil {
		showFatalError(win, fmt.Errorf("設定の読み込みに失敗しました: %w", err))
		return
	}

	logBinding := binding.NewString()
	logCapture := newLogCapture(logBinding, 300)
	logger := log.New(io.MultiWriter(os.Stdout, logCapture), "", log.LstdFlags)

	service := analyzer.NewService(analyzer.NewZXingDecoder(cfg.TryHarder), "", cfg, logger)

	saveConfig := func() {
		if err := analyzer.SaveConfig("", service.Config()); err != nil {
			logger.Printf("設定の保存に失敗しました: %v", err)
		}
	}
	defer saveConfig()

	u := buildUI(win, service, logBinding, saveConfig)
	if ok, diag := service.DecoderAvailable(); !ok {
		u.setStatus(fmt.Sprintf("デコード無効: %s", diag))
	}
	win.ShowAndRun()
}

func showFatalError(win fyne.Window, err error) {
	content := widget.NewLabel(err.Error())
	win.SetContent(content)
	dialog.ShowError(err, win)
	win.ShowAndRun()
}

type logCapture struct {
	mu      sync.Mutex
	lines   []string
	limit   int
	binding binding.String
}

func newLogCapture(b binding.String, limit int) *logCapture {
	return &logCapture{binding: b, limit: limit}
}

func (l *logCapture) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	text := strings.ReplaceAll(string(p), "\r\n", "\n")
	for _, part := range strings.Split(text, "\n") {
		if part == "" {
			continue
		}
		l.lines = append(l.lines, part)
	}
	if len(l.lines) > l.limit {
		l.lines = l.lines[len(l.lines)-l.limit:]
	}
	_ = l.binding.Set(strings.Join(l.lines, "\n"))
	return len(p), nil
}
