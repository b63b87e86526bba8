package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/rtreflect/glfwcontext"
	"github.com/richinsley/rtreflect/options"
	"github.com/richinsley/rtreflect/viewer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Ray-traced reflection viewer/recorder")
		flag.PrintDefaults()
		return
	}

	scene, err := options.LoadScene(*opts.SceneFile)
	if err != nil {
		log.Fatalf("Error loading scene: %v", err)
	}
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	scene.Apply(opts, setFlags)

	if err := run(opts, scene); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(opts *options.RenderOptions, scene *options.SceneConfig) error {
	record := *opts.Mode == "record"
	if !record && *opts.Mode != "window" {
		return fmt.Errorf("unknown mode %q, expected window or record", *opts.Mode)
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize graphics: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(*opts.Width, *opts.Height, !record, "rtreflect")
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()

	v, err := viewer.New(ctx, opts, scene)
	if err != nil {
		return fmt.Errorf("failed to create viewer: %w", err)
	}
	defer v.Shutdown()

	if record {
		if err := v.RunRecord(opts); err != nil {
			return fmt.Errorf("recording failed: %w", err)
		}
		log.Printf("Successfully rendered to %s", *opts.OutputFile)
		return nil
	}

	ctx.RegisterKeyCallback(glfw.KeyB, v.ToggleBVH)
	for i := 1; i <= 9; i++ {
		depth := i
		ctx.RegisterKeyCallback(glfw.Key1+glfw.Key(i-1), func() { v.SetRayDepth(depth) })
	}

	log.Println("Starting interactive render loop...")
	v.Run()
	return nil
}
