package main

import (
	"errors"
	"flag"
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"pong/internal/logger"
	"pong/pkg/config"
	"pong/pkg/engine"
	"pong/pkg/game"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	log := logger.NewLogger("info")
	log.Info("Starting Pong...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Warnf("Using default configuration: %v", err)
	}
	log.SetLevel(cfg.Logging.Level)
	if cfg.Logging.File != "" {
		fileLog, err := logger.NewMultiLogger(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			log.Warnf("Falling back to console logging: %v", err)
		} else {
			log = fileLog
			defer log.Close()
		}
	}

	if err := run(cfg, log); err != nil {
		log.Fatalf("Failed to run game: %v", err)
	}
	log.Info("Shutting down")
}

func run(cfg *config.Config, log *logger.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %v", err)
	}
	defer glfw.Terminate()

	// The surface is driven by WebGPU, not an OpenGL context
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create window: %v", err)
	}
	defer window.Destroy()

	font, err := engine.DefaultFont(cfg.Font.AtlasSize)
	if err != nil {
		return fmt.Errorf("failed to build font: %v", err)
	}

	renderer, err := engine.NewRenderer(window, font, cfg.Window.VSync, log)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %v", err)
	}
	defer renderer.Close()

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		renderer.Resize(width, height)
	})

	input := engine.NewInputHandler(window,
		glfw.KeyW, glfw.KeyS, glfw.KeyUp, glfw.KeyDown, glfw.KeySpace, glfw.KeyEscape)

	width, height := renderer.Size()
	state := game.NewState(cfg.Game, float32(width), float32(height), nil)

	log.Info("Engine initialized, starting game loop...")
	lastUpdate := time.Now()

	for !window.ShouldClose() {
		glfw.PollEvents()
		input.Update()

		if input.IsKeyPressed(glfw.KeyEscape) {
			window.SetShouldClose(true)
		}

		now := time.Now()
		dt := float32(now.Sub(lastUpdate).Seconds())
		lastUpdate = now

		width, height := renderer.Size()
		state.Update(dt, game.Input{
			LeftUp:    input.IsKeyDown(glfw.KeyW),
			LeftDown:  input.IsKeyDown(glfw.KeyS),
			RightUp:   input.IsKeyDown(glfw.KeyUp),
			RightDown: input.IsKeyDown(glfw.KeyDown),
			Serve:     input.IsKeyPressed(glfw.KeySpace),
		}, float32(width), float32(height))

		if err := drawFrame(renderer, state, cfg, log); err != nil {
			return err
		}
	}

	return nil
}

// drawFrame renders one frame: paddles, ball, center divider, then the
// scores and title. Transient presentation errors drop the frame; only a
// lost device aborts the loop.
func drawFrame(r *engine.Renderer, s *game.State, cfg *config.Config, log *logger.Logger) error {
	fontSize := cfg.Font.PixelSize
	lineHeight := cfg.Font.LineHeight
	width, height := r.Size()
	w, h := float32(width), float32(height)

	if err := r.BeginDrawing(); err != nil {
		return err
	}
	r.ClearColor(engine.RGBA(0.1, 0.1, 0.1, 1))

	r.DrawRectangle(
		engine.V2(s.Left.Pos.X, s.Left.Pos.Y-s.Left.Height/2),
		s.Left.Width, s.Left.Height,
		engine.RGB(1, 0, 0), engine.Deg(0))

	r.DrawRectangle(
		engine.V2(s.Right.Pos.X-s.Right.Width, s.Right.Pos.Y-s.Right.Height/2),
		s.Right.Width, s.Right.Height,
		engine.RGB(0, 0, 1), engine.Deg(0))

	r.DrawCircle(s.Ball.Pos, s.Ball.Radius, engine.RGB(1, 1, 1))

	// Center divider
	r.DrawRectangle(engine.V2(w/2-2, 0), 4, h, engine.RGBA(0.5, 0.5, 0.5, 0.5), engine.Deg(0))

	r.DrawText(fmt.Sprintf("P1: %d", s.Left.Score), engine.V2(0, 0), fontSize, lineHeight, nil)

	title := "Pong\nGame"
	titleWidth := r.MeasureText(title, fontSize, lineHeight)
	r.DrawText(title, engine.V2(w/2-titleWidth/2, 0), fontSize, lineHeight, nil)

	score := fmt.Sprintf("P2: %d", s.Right.Score)
	scoreWidth := r.MeasureText(score, fontSize, lineHeight)
	r.DrawText(score, engine.V2(w-scoreWidth, 0), fontSize, lineHeight, nil)

	if err := r.EndDrawing(); err != nil {
		switch {
		case errors.Is(err, engine.ErrSurfaceLost):
			// Reconfigure and retry next frame
			log.Warnf("Dropped frame: %v", err)
			r.Resize(r.Size())
		case errors.Is(err, engine.ErrDeviceLost):
			return err
		default:
			log.Errorf("Error: renderer.EndDrawing(): %v", err)
		}
	}

	return nil
}
