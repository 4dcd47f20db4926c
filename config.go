package main

const (
	fyneAppID   = "studio.yashubu.barcodeanalyzer"
	windowTitle = "Barcode Analyzer"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif"}
