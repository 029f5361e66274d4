package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/silbinarywolf/preferdiscretegpu"

	"net/http"
	_ "net/http/pprof"

	eb "github.com/hajimehoshi/ebiten/v2"

	"pianoroll/history"
	"pianoroll/midi"
)

var (
	ScreenWidth  float64 = 1280
	ScreenHeight float64 = 720
)

var ErrorLogger *log.Logger = log.New(os.Stderr, "ERROR: ", log.Lshortfile)
var InfoLogger *log.Logger = log.New(os.Stdout, "INFO: ", log.Lshortfile)

var FlagFile string
var FlagHotReload bool
var FlagPProf bool

func init() {
	flag.StringVar(&FlagFile, "file", "", "midi file to open")
	flag.BoolVar(&FlagHotReload, "hot", false, "enable shader hot reloading")
	flag.BoolVar(&FlagPProf, "pprof", false, "enable pprof")
}

type App struct {
	ShowDebugConsole bool

	Editor *Editor

	screenshotRequested bool
}

func NewApp(editor *Editor) *App {
	a := new(App)
	a.Editor = editor
	return a
}

func (a *App) Update() error {
	ClearDebugMsgs()

	// ==========================
	// update global timer
	// ==========================
	UpdateGlobalTimer()

	fpsStr := fmt.Sprintf("%.2f", eb.ActualFPS())
	tpsStr := fmt.Sprintf("%.2f", eb.ActualTPS())

	// ==========================
	// update windows title
	// ==========================
	eb.SetWindowTitle("Piano Roll FPS: " + fpsStr + " TPS: " + tpsStr)

	// ==========================
	// DebugPrint
	// ==========================
	DebugPrint("FPS", fpsStr)
	DebugPrint("TPS", tpsStr)

	// ==========================
	// asset loading and saving
	// ==========================
	if FlagHotReload && IsKeyJustPressed(ReloadAssetsKey) {
		ReloadAssets()
	}

	if IsKeyJustPressed(SaveColorTableKey) {
		SaveColorTable()
	}

	// ==========================
	// debug showing
	// ==========================
	if IsKeyJustPressed(ShowDebugConsoleKey) {
		a.ShowDebugConsole = !a.ShowDebugConsole
	}

	if IsKeyJustPressed(ScreenshotKey) {
		a.screenshotRequested = true
	}

	a.Editor.Update(ScreenWidth, ScreenHeight)

	return nil
}

func (a *App) Draw(dst *eb.Image) {
	a.Editor.Draw(dst)

	if a.ShowDebugConsole {
		DrawDebugMsgs(dst)
	}

	if a.screenshotRequested {
		a.screenshotRequested = false

		if filename, err := TakeScreenshot(dst); err != nil {
			ErrorLogger.Printf("failed to take screenshot : %v", err)
		} else {
			InfoLogger.Printf("saved screenshot to %s", filename)
		}
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	ScreenWidth = f64(outsideWidth)
	ScreenHeight = f64(outsideHeight)

	return outsideWidth, outsideHeight
}

func main() {
	flag.Parse()

	if FlagPProf {
		go func() {
			InfoLogger.Print("initializing pprof")
			InfoLogger.Print(http.ListenAndServe("localhost:6060", nil))
		}()
	}

	InitClipboardManager()

	LoadSettings()
	LoadColorTable()
	LoadAssets()

	recents, err := history.Open("recent.db")
	if err != nil {
		ErrorLogger.Printf("failed to open history db : %v", err)
	}

	filePath := FlagFile
	if filePath == "" && recents != nil {
		if entries, err := recents.Recent(1); err == nil && len(entries) > 0 {
			filePath = entries[0].Path
			InfoLogger.Printf("reopening %s", filePath)
		}
	}

	var file *midi.File
	if filePath != "" {
		file, err = midi.ReadFile(filePath)
		if err != nil {
			ErrorLogger.Printf("failed to open %s : %v", filePath, err)
			file = nil
			filePath = ""
		}
	}

	if recents != nil {
		if filePath != "" {
			if err := recents.Record(filePath); err != nil {
				ErrorLogger.Printf("failed to record history : %v", err)
			}
		}
		recents.Close()
	}

	audio, err := NewAudioSystem()
	if err != nil {
		ErrorLogger.Fatalf("failed to init audio : %v", err)
	}

	editor := NewEditor(filePath, file, audio)

	app := NewApp(editor)

	eb.SetVsyncEnabled(true)
	eb.SetWindowSize(int(ScreenWidth), int(ScreenHeight))
	eb.SetWindowResizingMode(eb.WindowResizingModeEnabled)
	eb.SetWindowTitle("Piano Roll")

	if err := eb.RunGame(app); err != nil {
		panic(err)
	}
}
