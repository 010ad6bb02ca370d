package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/gotherm/pkg/config"
	"github.com/itohio/gotherm/pkg/device"
	"github.com/itohio/gotherm/pkg/probe"
	"github.com/itohio/gotherm/pkg/trend"
)

// pollInterval is the period of the automatic reading loop.
const pollInterval = 2 * time.Second

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use mocked probe instead of serial port")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Create Fyne application
	application := app.NewWithID("com.itohio.gotherm")

	// Create main window
	window := application.NewWindow("Temperature Probe")
	window.Resize(fyne.NewSize(900, 600))
	window.CenterOnScreen()

	state := &appState{
		cfg:         cfg,
		window:      window,
		history:     trend.NewHistory(10 * time.Minute),
		trendWidget: trend.NewWidget(cfg.Probe.AlertThreshold),
		useMock:     *mockFlag,
	}

	toolbar := createToolbar(state)
	readout := createReadout(state)

	content := container.NewBorder(
		toolbar,
		readout,
		nil,
		nil,
		state.trendWidget,
	)

	window.SetContent(content)
	window.ShowAndRun()
}

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	device      device.Device
	window      fyne.Window
	history     *trend.History
	trendWidget *trend.Widget
	useMock     bool

	connectBtn *widget.Button
	readBtn    *widget.Button
	pollBtn    *widget.Button
	valueText  *canvas.Text
	alertText  *canvas.Text

	// stopPoll is non-nil while the automatic reading loop runs.
	// Touched only from the main Fyne thread.
	stopPoll chan struct{}
}

// createToolbar creates the toolbar with Connect, Settings, Read and
// auto-poll buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	readBtn := widget.NewButtonWithIcon("Read", theme.SearchIcon(), func() {
		handleRead(state)
	})
	readBtn.Disable()
	state.readBtn = readBtn

	pollBtn := widget.NewButtonWithIcon("Auto", theme.MediaPlayIcon(), func() {
		handlePollToggle(state)
	})
	pollBtn.Disable()
	state.pollBtn = pollBtn

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(connectBtn, settingsBtn),
		container.NewHBox(readBtn, pollBtn),
		nil,
	)
}

// createReadout creates the numeric readout row below the trend graph.
func createReadout(state *appState) fyne.CanvasObject {
	value := canvas.NewText("--.--", color.White)
	value.TextSize = 42
	value.TextStyle = fyne.TextStyle{Monospace: true}
	state.valueText = value

	alert := canvas.NewText(probe.AlertMessage, color.RGBA{R: 230, G: 70, B: 70, A: 255})
	alert.TextSize = 18
	alert.Hidden = true
	state.alertText = alert

	return container.NewHBox(value, alert)
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		// Disconnect
		stopPolling(state)
		if err := state.device.Close(); err != nil {
			dialog.ShowError(fmt.Errorf("failed to disconnect: %w", err), state.window)
		}
		state.device = nil
		state.readBtn.Disable()
		state.pollBtn.Disable()
		if state.useMock {
			fmt.Println("Disconnected from mocked probe")
		} else {
			fmt.Println("Disconnected from serial port")
		}
		return
	}

	// Connect
	var dev device.Device
	if state.useMock {
		dev = device.NewMock(&state.cfg.Mock, state.cfg.Probe.Probe())
		fmt.Println("Using mocked probe")
	} else {
		dev = device.New(state.cfg.Serial, state.cfg.Probe.Probe().Trigger)
	}

	if err := dev.Connect(); err != nil {
		if state.useMock {
			dialog.ShowError(fmt.Errorf("failed to connect to mocked probe: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	state.device = dev
	state.readBtn.Enable()
	state.pollBtn.Enable()
	if state.useMock {
		fmt.Println("Connected to mocked probe")
	} else {
		fmt.Printf("Connected to serial port: %s\n", state.cfg.Serial.Port)
	}
}

// handleRead requests a single reading off the main thread and shows it.
func handleRead(state *appState) {
	dev := state.device
	if dev == nil || !dev.IsConnected() {
		return
	}

	go func() {
		temp, err := dev.ReadTemperature()
		fyne.Do(func() {
			if err != nil {
				dialog.ShowError(fmt.Errorf("failed to read temperature: %w", err), state.window)
				return
			}
			showReading(state, temp)
		})
	}()
}

// handlePollToggle starts or stops the automatic reading loop.
func handlePollToggle(state *appState) {
	if state.stopPoll != nil {
		stopPolling(state)
		return
	}

	dev := state.device
	if dev == nil || !dev.IsConnected() {
		return
	}

	stop := make(chan struct{})
	state.stopPoll = stop
	state.pollBtn.SetIcon(theme.MediaStopIcon())

	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				temp, err := dev.ReadTemperature()
				if err != nil {
					continue
				}
				fyne.Do(func() {
					showReading(state, temp)
				})
			}
		}
	}()
}

// stopPolling stops the automatic reading loop if it is running.
func stopPolling(state *appState) {
	if state.stopPoll == nil {
		return
	}
	close(state.stopPoll)
	state.stopPoll = nil
	state.pollBtn.SetIcon(theme.MediaPlayIcon())
}

// showReading updates the readout and the trend graph. Must run on the
// main Fyne thread.
func showReading(state *appState, temp float64) {
	state.valueText.Text = fmt.Sprintf("%.2f°C", temp)
	state.valueText.Refresh()

	state.alertText.Hidden = !(state.cfg.Probe.AlertEnabled && temp > state.cfg.Probe.AlertThreshold)
	state.alertText.Refresh()

	state.history.Add(trend.Reading{Timestamp: time.Now(), Temperature: temp})
	state.trendWidget.UpdateData(state.history.Readings())
}
