package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/barcodeanalyzer/analyzer"
)

const zoomStep = 1.15

type tableColumn struct {
	Title  string
	Width  float32
	Render func(analyzer.ResultRow) string
}

// uiState is mutated on the Fyne main thread only; background decodes hand
// their results back through fyne.Do.
type uiState struct {
	service    *analyzer.Service
	saveConfig func()

	w          fyne.Window
	imgView    *canvas.Image
	imgScroll  *container.Scroll
	filter     *widget.Entry
	table      *widget.Table
	columns    []tableColumn
	status     *widget.Label
	statusBind binding.String

	baseImg image.Image
	imgSize fyne.Size
	zoom    float32
	rows    []analyzer.ResultRow
	visible []int
}

func buildUI(win fyne.Window, svc *analyzer.Service, logBind binding.String, saveConfig func()) *uiState {
	u := &uiState{service: svc, saveConfig: saveConfig, w: win, zoom: 1}

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("準備完了")
	u.status = widget.NewLabelWithData(u.statusBind)

	u.imgView = canvas.NewImageFromImage(nil)
	u.imgView.FillMode = canvas.ImageFillContain
	u.imgScroll = container.NewScroll(u.imgView)

	u.filter = widget.NewEntry()
	u.filter.SetPlaceHolder("コード / 提案 / メモを検索...")
	u.filter.OnChanged = func(string) { u.applyFilter() }

	u.columns = []tableColumn{
		{Title: "#", Width: 40, Render: func(r analyzer.ResultRow) string { return strconv.Itoa(r.Index) }},
		{Title: "コード", Width: 180, Render: func(r analyzer.ResultRow) string { return r.Code }},
		{Title: "提案", Width: 300, Render: func(r analyzer.ResultRow) string { return r.Suggestion }},
		{Title: "メモ", Width: 200, Render: func(r analyzer.ResultRow) string { return r.Note }},
	}
	u.table = widget.NewTable(
		func() (int, int) { return len(u.visible) + 1, len(u.columns) },
		func() fyne.CanvasObject {
			lbl := widget.NewLabel("")
			lbl.Wrapping = fyne.TextWrapWord
			return lbl
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			if id.Row == 0 {
				if id.Col < len(u.columns) {
					lbl.SetText(u.columns[id.Col].Title)
				}
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.Alignment = fyne.TextAlignCenter
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			lbl.Alignment = fyne.TextAlignLeading
			rowIdx := id.Row - 1
			if rowIdx >= len(u.visible) || id.Col >= len(u.columns) {
				lbl.SetText("")
				return
			}
			lbl.SetText(u.columns[id.Col].Render(u.rows[u.visible[rowIdx]]))
		},
	)
	for i, col := range u.columns {
		u.table.SetColumnWidth(i, col.Width)
	}
	u.table.OnSelected = func(id widget.TableCellID) {
		u.table.UnselectAll()
		if id.Row <= 0 || id.Row-1 >= len(u.visible) {
			return
		}
		u.editNote(u.rows[u.visible[id.Row-1]])
	}

	openBtn := widget.NewButtonWithIcon("画像を開く", theme.FolderOpenIcon(), func() { u.onOpenImage() })
	retryBtn := widget.NewButtonWithIcon("再解析", theme.ViewRefreshIcon(), func() { u.decodeCurrent() })
	copyBtn := widget.NewButtonWithIcon("全コードコピー", theme.ContentCopyIcon(), func() { u.copyVisibleCodes() })
	csvBtn := widget.NewButtonWithIcon("CSV出力", theme.DocumentSaveIcon(), func() { u.onExportCSV() })
	jsonBtn := widget.NewButtonWithIcon("JSON出力", theme.DocumentSaveIcon(), func() { u.onExportJSON() })
	importBtn := widget.NewButtonWithIcon("JSON読込", theme.UploadIcon(), func() { u.onImportJSON() })
	zoomInBtn := widget.NewButton("拡大 +", func() { u.setZoom(u.zoom * zoomStep) })
	zoomOutBtn := widget.NewButton("縮小 −", func() { u.setZoom(u.zoom / zoomStep) })

	toolbar := container.NewHBox(openBtn, retryBtn, widget.NewSeparator(), copyBtn,
		widget.NewSeparator(), csvBtn, jsonBtn, importBtn)

	logLabel := widget.NewLabelWithData(logBind)
	logLabel.Wrapping = fyne.TextWrapWord
	logScroll := container.NewVScroll(logLabel)
	logScroll.SetMinSize(fyne.NewSize(200, 100))

	imagePane := container.NewBorder(nil, container.NewHBox(zoomOutBtn, zoomInBtn), nil, nil, u.imgScroll)
	filterRow := container.NewBorder(nil, nil, widget.NewLabel("フィルタ:"), nil, u.filter)
	rightPane := container.NewBorder(filterRow, container.NewVBox(widget.NewSeparator(), u.status, logScroll), nil, nil, u.table)

	split := container.NewHSplit(imagePane, rightPane)
	split.Offset = 0.5
	win.SetContent(container.NewBorder(toolbar, nil, nil, nil, split))

	win.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		for _, uri := range uris {
			if hasImageExtension(uri.Path()) {
				u.loadImageFromPath(uri.Path())
				return
			}
		}
	})
	u.registerShortcuts()
	return u
}

func (u *uiState) registerShortcuts() {
	shortcuts := []struct {
		key fyne.KeyName
		fn  func()
	}{
		{fyne.KeyO, u.onOpenImage},
		{fyne.KeyC, u.copyVisibleCodes},
		{fyne.KeyE, u.onExportCSV},
	}
	for _, sc := range shortcuts {
		fn := sc.fn
		u.w.Canvas().AddShortcut(
			&desktop.CustomShortcut{KeyName: sc.key, Modifier: fyne.KeyModifierControl},
			func(fyne.Shortcut) { fn() })
	}
}

func hasImageExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range imageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (u *uiState) setStatus(text string) {
	_ = u.statusBind.Set(text)
}

func (u *uiState) applyFilter() {
	query := normalizeQuery(u.filter.Text)
	u.visible = u.visible[:0]
	for i, row := range u.rows {
		if rowMatches(row, query) {
			u.visible = append(u.visible, i)
		}
	}
	u.table.Refresh()
}

func (u *uiState) refreshRows() {
	u.rows = u.service.Rows()
	u.applyFilter()
}

func (u *uiState) editNote(row analyzer.ResultRow) {
	entry := widget.NewMultiLineEntry()
	entry.SetText(row.Note)
	entry.Wrapping = fyne.TextWrapWord
	content := container.NewBorder(
		widget.NewLabel(fmt.Sprintf("#%d %s", row.Index, row.Code)), nil, nil, nil, entry)
	d := dialog.NewCustomConfirm("メモ編集", "保存", "キャンセル", content, func(ok bool) {
		if !ok {
			return
		}
		u.service.SetNote(row.Index, entry.Text)
		u.refreshRows()
	}, u.w)
	d.Resize(fyne.NewSize(420, 260))
	d.Show()
}

// ----- image handling -----

func (u *uiState) onOpenImage() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()
		path := rc.URI().Path()
		img, err := analyzer.DecodeImage(rc)
		if err != nil {
			dialog.ShowError(fmt.Errorf("画像を開けません: %w", err), u.w)
			return
		}
		u.rememberImageDir(path)
		u.setImage(img)
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	if lister := listerFor(u.service.Config().LastImageDir); lister != nil {
		fd.SetLocation(lister)
	}
	fd.Show()
}

func (u *uiState) loadImageFromPath(path string) {
	img, err := analyzer.DecodeImageFile(path)
	if err != nil {
		dialog.ShowError(fmt.Errorf("画像を開けません: %w", err), u.w)
		return
	}
	u.rememberImageDir(path)
	u.setImage(img)
}

func (u *uiState) setImage(img image.Image) {
	u.baseImg = img
	b := img.Bounds()
	u.imgSize = fyne.NewSize(float32(b.Dx()), float32(b.Dy()))
	u.zoom = 1
	u.showImage(img)
	u.decodeCurrent()
}

func (u *uiState) showImage(img image.Image) {
	u.imgView.Image = img
	u.imgView.SetMinSize(fyne.NewSize(u.imgSize.Width*u.zoom, u.imgSize.Height*u.zoom))
	u.imgView.Refresh()
	u.imgScroll.Refresh()
}

func (u *uiState) setZoom(z float32) {
	if u.baseImg == nil {
		return
	}
	if z < 0.1 {
		z = 0.1
	}
	if z > 16 {
		z = 16
	}
	u.zoom = z
	u.imgView.SetMinSize(fyne.NewSize(u.imgSize.Width*u.zoom, u.imgSize.Height*u.zoom))
	u.imgView.Refresh()
	u.imgScroll.Refresh()
}

// ----- decoding -----

func (u *uiState) decodeCurrent() {
	img := u.baseImg
	if img == nil {
		return
	}
	if ok, diag := u.service.DecoderAvailable(); !ok {
		dialog.ShowInformation("デコード不可", diag, u.w)
		return
	}
	gen := u.service.BeginSession()
	u.rows = nil
	u.applyFilter()
	u.setStatus("解析中...")
	go func() {
		out, err := u.service.Decode(context.Background(), img, gen)
		if err != nil {
			u.setStatus("デコードエラー")
			fyne.Do(func() { dialog.ShowError(err, u.w) })
			return
		}
		if !out.Applied {
			return
		}
		fyne.Do(func() {
			u.rows = out.Rows
			u.applyFilter()
			u.showImage(analyzer.DrawBoxes(img, out.Boxes))
			u.setStatus(statusForReport(out.Report))
		})
	}()
}

func statusForReport(rep analyzer.Report) string {
	msg := fmt.Sprintf("Code128を%d件読み取り", rep.Shown)
	if rep.Accepted != rep.Shown {
		msg += fmt.Sprintf("（Code128合計 %d件）", rep.Accepted)
	}
	if rep.Total != rep.Accepted {
		msg += fmt.Sprintf("（他形式 %d件は除外）", rep.Total-rep.Accepted)
	}
	if rep.Shown != analyzer.MaxResults {
		msg += fmt.Sprintf("※期待値は%d件", analyzer.MaxResults)
	}
	return msg
}

// ----- clipboard / export / import -----

func (u *uiState) copyVisibleCodes() {
	codes := make([]string, 0, len(u.visible))
	for _, i := range u.visible {
		codes = append(codes, u.rows[i].Code)
	}
	u.w.Clipboard().SetContent(strings.Join(codes, "\n"))
	u.setStatus(fmt.Sprintf("%d件のコードをコピーしました", len(codes)))
}

func (u *uiState) onExportCSV() {
	u.exportWith("barcodes.csv", u.service.ExportCSV)
}

func (u *uiState) onExportJSON() {
	u.exportWith("mapping.json", u.service.ExportJSON)
}

func (u *uiState) exportWith(filename string, write func(io.Writer) error) {
	if len(u.rows) == 0 {
		dialog.ShowInformation("情報", "出力する結果がありません", u.w)
		return
	}
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		if uc == nil {
			return
		}
		defer uc.Close()
		if err := write(uc); err != nil {
			dialog.ShowError(fmt.Errorf("保存に失敗しました: %w", err), u.w)
			return
		}
		u.rememberExportDir(uc.URI().Path())
		u.setStatus(fmt.Sprintf("%s に保存しました", filepath.Base(uc.URI().Path())))
	}, u.w)
	fd.SetFileName(filename)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{filepath.Ext(filename)}))
	if lister := listerFor(u.service.Config().LastExportDir); lister != nil {
		fd.SetLocation(lister)
	}
	fd.Show()
}

func (u *uiState) onImportJSON() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()
		n, err := u.service.ImportNotes(rc)
		if err != nil {
			dialog.ShowError(fmt.Errorf("インポートに失敗しました: %w", err), u.w)
			return
		}
		u.refreshRows()
		u.setStatus(fmt.Sprintf("メモのマッピングを読み込みました（%d行）", n))
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if lister := listerFor(u.service.Config().LastExportDir); lister != nil {
		fd.SetLocation(lister)
	}
	fd.Show()
}

// ----- config helpers -----

func listerFor(dir string) fyne.ListableURI {
	if dir == "" || dir == "." {
		return nil
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return lister
}

func (u *uiState) rememberImageDir(path string) {
	cfg := u.service.Config()
	cfg.LastImageDir = filepath.Dir(path)
	u.service.UpdateConfig(cfg)
	u.saveConfig()
}

func (u *uiState) rememberExportDir(path string) {
	cfg := u.service.Config()
	cfg.LastExportDir = filepath.Dir(path)
	u.service.UpdateConfig(cfg)
	u.saveConfig()
}
