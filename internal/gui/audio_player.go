package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// AudioControls holds the play, stop and download buttons. Only one of
// play and stop is visible at a time.
type AudioControls struct {
	widget.BaseWidget

	container      *fyne.Container
	playButton     *ttwidget.Button
	stopButton     *ttwidget.Button
	downloadButton *ttwidget.Button
}

// NewAudioControls creates the controls wired to the given actions
func NewAudioControls(onPlay, onStop, onDownload func()) *AudioControls {
	c := &AudioControls{}

	c.playButton = ttwidget.NewButtonWithIcon("Play", theme.MediaPlayIcon(), onPlay)
	c.stopButton = ttwidget.NewButtonWithIcon("Stop", theme.MediaStopIcon(), onStop)
	c.downloadButton = ttwidget.NewButtonWithIcon("Download", theme.DownloadIcon(), onDownload)

	c.stopButton.Hide()
	c.SetEnabled(false)

	c.container = container.NewHBox(
		c.playButton,
		c.stopButton,
		layout.NewSpacer(),
		c.downloadButton,
	)

	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget
func (c *AudioControls) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.container)
}

// SetEnabled enables or disables play and download
func (c *AudioControls) SetEnabled(enabled bool) {
	if enabled {
		c.playButton.Enable()
		c.downloadButton.Enable()
	} else {
		c.playButton.Disable()
		c.downloadButton.Disable()
	}
}

// ShowPlaying shows the stop button while playing and the play button
// otherwise
func (c *AudioControls) ShowPlaying(playing bool) {
	if playing {
		c.playButton.Hide()
		c.stopButton.Show()
	} else {
		c.stopButton.Hide()
		c.playButton.Show()
	}
}

// SetToolTips sets the button tooltips. It must run after the window's
// tooltip layer exists.
func (c *AudioControls) SetToolTips(downloadDir string) {
	c.playButton.SetToolTip("Play audio (Ctrl+P)")
	c.stopButton.SetToolTip("Stop audio")
	c.downloadButton.SetToolTip("Save audio to " + downloadDir)
}

// Playing reports whether the stop button is showing
func (c *AudioControls) Playing() bool {
	return c.stopButton.Visible()
}

// Enabled reports whether play is enabled
func (c *AudioControls) Enabled() bool {
	return !c.playButton.Disabled()
}
