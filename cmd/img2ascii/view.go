// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/ascii"
)

// runViewer renders the image as ASCII art in the terminal and refits it
// whenever the terminal is resized. Quit with q, Esc or Ctrl-C.
func runViewer(src image.Image, packing ascii.Packing, opts []ascii.Option) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialize terminal: %w", err)
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorWhite))

	conv := ascii.NewConverter(opts...)
	defer conv.Close()

	render := func() {
		screen.Clear()
		termCols, termRows := screen.Size()
		frame, err := fitFrame(conv, src, packing, termCols, termRows)
		if err != nil {
			drawText(screen, 0, 0, err.Error())
			screen.Show()
			return
		}
		for y, row := range frame.Text() {
			drawText(screen, 0, y, row)
		}
		screen.Show()
	}

	render()
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			render()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return nil
			}
		}
	}
}

// fitFrame converts the image at dimensions that fill the terminal without
// overflowing either axis.
func fitFrame(conv *ascii.Converter, src image.Image, packing ascii.Packing, termCols, termRows int) (*ascii.Frame, error) {
	cols := termCols
	w, h := ascii.FitColumns(src, cols, packing, true)
	if rows := h / 2; rows > termRows && rows > 0 {
		cols = cols * termRows / rows
		if cols < 1 {
			cols = 1
		}
		w, h = ascii.FitColumns(src, cols, packing, true)
	}
	return conv.Convert(ascii.FromImage(ascii.Resize(src, w, h)))
}

func drawText(screen tcell.Screen, x, y int, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}
