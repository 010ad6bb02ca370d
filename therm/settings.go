package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/gotherm/pkg/device"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	// Create tabs
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createProbeTab(state),
		createMonitorTab(state),
		createMockTab(state),
	)

	// Create dialog with tabs as content
	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 500))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	// Get available serial ports
	ports, err := device.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
		currentDisplay = currentPort
	}

	portSelect := widget.NewSelect(portOptions, func(selected string) {
		// Selection handler - will be called on submit
	})
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	readTimeoutEntry := widget.NewEntry()
	readTimeoutEntry.SetText(state.cfg.Serial.ReadTimeout.String())

	retriesEntry := widget.NewEntry()
	retriesEntry.SetText(fmt.Sprintf("%d", state.cfg.Serial.Retries))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Read Timeout", Widget: readTimeoutEntry},
			{Text: "Retries", Widget: retriesEntry},
		},
		OnSubmit: func() {
			if rt, err := time.ParseDuration(readTimeoutEntry.Text); err == nil {
				state.cfg.Serial.ReadTimeout = rt
			}
			if r, err := strconv.Atoi(retriesEntry.Text); err == nil {
				state.cfg.Serial.Retries = r
			}
			if portSelect.Selected != "" {
				selectedPort := portMap[portSelect.Selected]
				if selectedPort == "" {
					selectedPort = portSelect.Selected // Fallback to selected text
				}

				// Check if port changed and device is connected
				portChanged := state.cfg.Serial.Port != selectedPort
				wasConnected := state.device != nil && state.device.IsConnected()

				state.cfg.Serial.Port = selectedPort
				if err := state.cfg.Save("config.yaml"); err != nil {
					dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
					return
				}

				// If port changed and device was connected, reconnect
				if portChanged && wasConnected {
					stopPolling(state)
					if state.device != nil {
						state.device.Close()
						state.device = nil
					}
					handleConnect(state)
				}
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createProbeTab creates the Probe calibration tab.
func createProbeTab(state *appState) *container.TabItem {
	triggerEntry := widget.NewEntry()
	triggerEntry.SetText(state.cfg.Probe.Trigger)

	scaleEntry := widget.NewEntry()
	scaleEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Probe.Scale))

	divisorEntry := widget.NewEntry()
	divisorEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Probe.Divisor))

	offsetEntry := widget.NewEntry()
	offsetEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Probe.Offset))

	alertCheck := widget.NewCheck("", nil)
	alertCheck.SetChecked(state.cfg.Probe.AlertEnabled)

	thresholdEntry := widget.NewEntry()
	thresholdEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Probe.AlertThreshold))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Trigger Character", Widget: triggerEntry},
			{Text: "Scale", Widget: scaleEntry},
			{Text: "Divisor", Widget: divisorEntry},
			{Text: "Offset (°C)", Widget: offsetEntry},
			{Text: "Overheat Warning", Widget: alertCheck},
			{Text: "Warning Threshold (°C)", Widget: thresholdEntry},
		},
		OnSubmit: func() {
			if triggerEntry.Text != "" {
				state.cfg.Probe.Trigger = triggerEntry.Text[:1]
			}
			if s, err := strconv.ParseFloat(scaleEntry.Text, 64); err == nil {
				state.cfg.Probe.Scale = s
			}
			if d, err := strconv.ParseFloat(divisorEntry.Text, 64); err == nil {
				state.cfg.Probe.Divisor = d
			}
			if o, err := strconv.ParseFloat(offsetEntry.Text, 64); err == nil {
				state.cfg.Probe.Offset = o
			}
			state.cfg.Probe.AlertEnabled = alertCheck.Checked
			if th, err := strconv.ParseFloat(thresholdEntry.Text, 64); err == nil {
				state.cfg.Probe.AlertThreshold = th
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
			// Move the threshold line on the graph
			state.trendWidget.SetThreshold(state.cfg.Probe.AlertThreshold)
		},
	}

	return container.NewTabItem("Probe", form)
}

// createMonitorTab creates the threshold monitor tab.
func createMonitorTab(state *appState) *container.TabItem {
	maxTempEntry := widget.NewEntry()
	maxTempEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Monitor.MaxTemp))

	intervalEntry := widget.NewEntry()
	intervalEntry.SetText(state.cfg.Monitor.Interval.String())

	hysteresisEntry := widget.NewEntry()
	hysteresisEntry.SetText(fmt.Sprintf("%d", state.cfg.Monitor.Hysteresis))

	cooldownEntry := widget.NewEntry()
	cooldownEntry.SetText(state.cfg.Monitor.ActionCooldown.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Max Temperature (°C)", Widget: maxTempEntry},
			{Text: "Check Interval", Widget: intervalEntry},
			{Text: "Hysteresis (readings)", Widget: hysteresisEntry},
			{Text: "Action Cooldown", Widget: cooldownEntry},
		},
		OnSubmit: func() {
			if mt, err := strconv.ParseFloat(maxTempEntry.Text, 64); err == nil {
				state.cfg.Monitor.MaxTemp = mt
			}
			if iv, err := time.ParseDuration(intervalEntry.Text); err == nil {
				state.cfg.Monitor.Interval = iv
			}
			if h, err := strconv.Atoi(hysteresisEntry.Text); err == nil {
				state.cfg.Monitor.Hysteresis = h
			}
			if cd, err := time.ParseDuration(cooldownEntry.Text); err == nil {
				state.cfg.Monitor.ActionCooldown = cd
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Monitor", form)
}

// createMockTab creates the Mock device configuration tab.
func createMockTab(state *appState) *container.TabItem {
	sampleEntry := widget.NewEntry()
	sampleEntry.SetText(fmt.Sprintf("%d", state.cfg.Mock.Sample))

	noiseLevelEntry := widget.NewEntry()
	noiseLevelEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Mock.NoiseLevel))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Pinned Sample (counts)", Widget: sampleEntry},
			{Text: "Noise Level (counts)", Widget: noiseLevelEntry},
		},
		OnSubmit: func() {
			if s, err := strconv.Atoi(sampleEntry.Text); err == nil && s >= 0 {
				state.cfg.Mock.Sample = uint16(s)
			}
			if nl, err := strconv.ParseFloat(noiseLevelEntry.Text, 64); err == nil {
				state.cfg.Mock.NoiseLevel = nl
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Mock", form)
}
