// facet - terminal 3D scene viewer
// Renders a built-in scene or a GLB model with either the software rasterizer
// or the 2D canvas backend.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation
//	M           - Cycle draw mode (solid/wireframe/points)
//	F           - Cycle fill mode (canvas backend)
//	B           - Switch backend
//	L           - Light positioning mode (move mouse, click to set, Esc to cancel)
//	Esc         - Quit (or cancel light mode)
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/gogpu/gg"

	"github.com/fizzl/facet/pkg/math3d"
	"github.com/fizzl/facet/pkg/render"
	"github.com/fizzl/facet/pkg/scene"
)

var (
	backendName = flag.String("backend", "soft", "Render backend: soft or canvas")
	outputPath  = flag.String("o", "", "Render a single frame to a PNG file and exit")
	texturePath = flag.String("texture", "", "Path to texture image (PNG/JPG)")
	spritePath  = flag.String("sprite", "", "Path to point sprite image (PNG/JPG)")
	targetFPS   = flag.Int("fps", 60, "Target FPS")
	bgColor     = flag.String("bg", "30,30,40", "Background color (R,G,B)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "facet - terminal 3D scene viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: facet [options] [model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Without a model a built-in cube scene is shown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Roll left/right\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  M           - Cycle draw mode\n")
		fmt.Fprintf(os.Stderr, "  F           - Cycle fill mode\n")
		fmt.Fprintf(os.Stderr, "  B           - Switch backend\n")
		fmt.Fprintf(os.Stderr, "  L           - Position light (mouse to aim, click to set)\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// RotationAxis tracks position and velocity for one rotation axis with spring decay.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewRotationAxis creates an axis with a harmonica spring for smooth velocity decay.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped.
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState holds model rotation with spring physics.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

func NewRotationState(fps int) *RotationState {
	return &RotationState{
		Pitch: NewRotationAxis(fps),
		Yaw:   NewRotationAxis(fps),
		Roll:  NewRotationAxis(fps),
		fps:   fps,
	}
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

// screenToLightDir maps a terminal position onto a hemisphere facing the
// camera, giving a distant-light direction that points toward the scene.
func screenToLightDir(screenX, screenY, width, height int) math3d.Vec3 {
	nx := (float64(screenX)/float64(width))*2 - 1
	ny := (float64(screenY)/float64(height))*2 - 1

	lenSq := nx*nx + ny*ny
	if lenSq > 1 {
		l := math.Sqrt(lenSq)
		nx /= l
		ny /= l
		lenSq = 1
	}
	nz := math.Sqrt(1 - lenSq)

	// The light direction points at the object, away from the hemisphere.
	return math3d.V3(nx, -ny, nz).Negate().Normalize()
}

var drawModes = []scene.DrawMode{scene.DrawSolid, scene.DrawWireframe, scene.DrawPoints}

var fillModes = []scene.FillMode{
	scene.FillInflate, scene.FillSingle, scene.FillTwice,
	scene.FillStroke, scene.FillHiddenLine,
}

func parseBackground(s string) render.Color {
	var r, g, b uint8 = 30, 30, 40
	fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b)
	return render.RGB(r, g, b)
}

// buildScene loads the model (or creates the default cube) and sets up
// camera and lights.
func buildScene(modelPath string) (*scene.Scene, *scene.Entity, error) {
	style := scene.DefaultStyle()
	style.Color = render.RGB(200, 200, 200)
	style.LineScale = 4

	var ent *scene.Entity
	if modelPath == "" {
		ent = scene.NewCube(1, style)
	} else {
		var err error
		ent, err = scene.LoadGLB(modelPath, style)
		if err != nil {
			return nil, nil, fmt.Errorf("load model: %w", err)
		}
		ent.FitTo(2)
	}

	if *texturePath != "" {
		tex, err := scene.LoadSprite(*texturePath, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("load texture: %w", err)
		}
		ent.Textures = []*gg.ImageBuf{tex}
		for i := range ent.Polygons {
			ent.Polygons[i].Texture = 0
		}
	}
	if *spritePath != "" {
		sprite, err := scene.LoadSprite(*spritePath, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("load sprite: %w", err)
		}
		ent.Sprite = sprite
	}

	sc := scene.NewScene()
	sc.Add(ent)
	sc.Camera.SetPosition(math3d.V3(0, 0, 5))
	sc.Camera.LookAt(math3d.Zero3())
	sc.Camera.SetFOV(math.Pi / 3)
	sc.Camera.SetClipPlanes(0.1, 100)

	sc.Lights = append(sc.Lights,
		scene.NewDistantLight(math3d.V3(-0.5, -1, -0.3), [3]float64{1, 1, 1}, 0.9))
	point, err := scene.NewPointLight(
		math3d.V3(2, 1, 3), [3]float64{1, 0.9, 0.8}, 0.8, 5, scene.FalloffLinear)
	if err != nil {
		return nil, nil, err
	}
	sc.Lights = append(sc.Lights, point)
	return sc, ent, nil
}

// renderOnce renders a single frame to a PNG, for headless use.
func renderOnce(modelPath, outPath string, bg render.Color) error {
	const width, height = 800, 600

	sc, _, err := buildScene(modelPath)
	if err != nil {
		return err
	}
	sc.Camera.SetAspectRatio(float64(width) / float64(height))
	list := sc.Update(width, height)

	if *backendName == "canvas" {
		surface := render.NewSurface(width, height)
		surface.Background = bg
		if err := surface.Render(list, sc.Camera, sc.Lights); err != nil {
			return err
		}
		return surface.SavePNG(outPath)
	}

	raster := render.NewRaster(render.NewFramebuffer(width, height))
	raster.Background = bg
	raster.Render(list, sc.Camera, sc.Lights)
	return raster.Framebuffer().SavePNG(outPath)
}

func run(modelPath string) error {
	bg := parseBackground(*bgColor)

	if *outputPath != "" {
		return renderOnce(modelPath, *outputPath, bg)
	}

	sc, ent, err := buildScene(modelPath)
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Mouse tracking: any-event plus SGR extended coordinates.
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	sc.Camera.SetAspectRatio(float64(fbWidth) / float64(fbHeight))

	raster := render.NewRaster(fb)
	raster.Background = bg
	surface := render.NewSurface(fbWidth, fbHeight)
	surface.Background = bg
	useCanvas := *backendName == "canvas"

	if modelPath != "" {
		fmt.Printf("Loaded: %s (%d vertices, %d polygons)\n",
			filepath.Base(modelPath), len(ent.Vertices), len(ent.Polygons))
	}

	rotation := NewRotationState(*targetFPS)
	drawMode := 0
	fillMode := 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	inputTorque := struct{ pitch, yaw, roll float64 }{}
	const torqueStrength = 3.0

	var mouseDown bool
	var lastMouseX, lastMouseY int
	cameraZ := 5.0

	// Light positioning: while active, mouse motion aims the distant light
	// and a click commits it; escape restores the previous direction.
	var lightMode bool
	var savedLightDir math3d.Vec3

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				fbWidth, fbHeight = termRenderer.FramebufferSize()
				fb = render.NewFramebuffer(fbWidth, fbHeight)
				raster = render.NewRaster(fb)
				raster.Background = bg
				surface = render.NewSurface(fbWidth, fbHeight)
				surface.Background = bg
				sc.Camera.SetAspectRatio(float64(fbWidth) / float64(fbHeight))

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"):
					if lightMode {
						lightMode = false
						sc.Lights[0].Direction = savedLightDir
						continue
					}
					cancel()
					return
				case ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("l"):
					if !lightMode {
						lightMode = true
						savedLightDir = sc.Lights[0].Direction
					}
				case ev.MatchString("r"):
					rotation.Reset()
					cameraZ = 5.0
					sc.Camera.SetPosition(math3d.V3(0, 0, cameraZ))
				case ev.MatchString("w", "up"):
					inputTorque.pitch = -torqueStrength
				case ev.MatchString("s", "down"):
					inputTorque.pitch = torqueStrength
				case ev.MatchString("a", "left"):
					inputTorque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					inputTorque.yaw = torqueStrength
				case ev.MatchString("q"):
					inputTorque.roll = -torqueStrength
				case ev.MatchString("e"):
					inputTorque.roll = torqueStrength
				case ev.MatchString("space"):
					rotation.ApplyImpulse(
						(rand.Float64()-0.5)*1.5,
						(rand.Float64()-0.5)*1.5,
						(rand.Float64()-0.5)*1.5,
					)
				case ev.MatchString("+", "="):
					cameraZ = math.Max(1, cameraZ-0.5)
					sc.Camera.SetPosition(math3d.V3(0, 0, cameraZ))
				case ev.MatchString("-", "_"):
					cameraZ = math.Min(20, cameraZ+0.5)
					sc.Camera.SetPosition(math3d.V3(0, 0, cameraZ))
				case ev.MatchString("m"):
					drawMode = (drawMode + 1) % len(drawModes)
					ent.Style.DrawMode = drawModes[drawMode]
				case ev.MatchString("f"):
					fillMode = (fillMode + 1) % len(fillModes)
					ent.Style.FillMode = fillModes[fillMode]
				case ev.MatchString("b"):
					useCanvas = !useCanvas
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					inputTorque.pitch = 0
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					inputTorque.yaw = 0
				case ev.MatchString("q"), ev.MatchString("e"):
					inputTorque.roll = 0
				}

			case uv.MouseClickEvent:
				if lightMode {
					lightMode = false
					continue
				}
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				if !lightMode {
					mouseDown = false
				}

			case uv.MouseMotionEvent:
				if lightMode {
					sc.Lights[0].Direction = screenToLightDir(ev.X, ev.Y, width, height)
				} else if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03, 0)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					cameraZ = math.Max(1, cameraZ-0.5)
				case uv.MouseWheelDown:
					cameraZ = math.Min(20, cameraZ+0.5)
				}
				sc.Camera.SetPosition(math3d.V3(0, 0, cameraZ))
			}
		}
	}()

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		// Apply input torque and decay it (key release events unreliable).
		rotation.ApplyImpulse(
			inputTorque.pitch*dt,
			inputTorque.yaw*dt,
			inputTorque.roll*dt,
		)
		inputTorque.pitch *= 0.9
		inputTorque.yaw *= 0.9
		inputTorque.roll *= 0.9

		rotation.Update()

		ent.Matrix = math3d.RotateX(rotation.Pitch.Position).
			Mul(math3d.RotateY(rotation.Yaw.Position)).
			Mul(math3d.RotateZ(rotation.Roll.Position))

		ent.ResetClip()
		curW, curH := fb.Width, fb.Height
		list := sc.Update(curW, curH)

		if useCanvas {
			if err := surface.Render(list, sc.Camera, sc.Lights); err != nil {
				cleanup()
				return fmt.Errorf("render: %w", err)
			}
			copyImage(surface, fb)
		} else {
			raster.Render(list, sc.Camera, sc.Lights)
		}

		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// copyImage transfers the canvas backend's pixels into the terminal buffer.
func copyImage(s *render.Surface, fb *render.Framebuffer) {
	img := s.Context().Image()
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			fb.SetPixel(x, y, render.Color{
				R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8),
			})
		}
	}
}
