package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rigel/internal/core"
	"github.com/vovakirdan/rigel/internal/engine/components"
	"github.com/vovakirdan/rigel/internal/engine/ecs"
	"github.com/vovakirdan/rigel/internal/engine/physics"
	"github.com/vovakirdan/rigel/internal/engine/tiles"
)

var flagSimFrames int

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the physics demo for a number of frames",
	Long: `Run a small fixed scene through the physics system at the configured
logic rate and print the state of the moving body after every frame. A body
drops onto the floor, walks right and stops against a crate. The output is
identical on every run.

Examples:
  rigel simulate
  rigel simulate --frames 60`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimFrames, "frames", 30, "Number of frames to run")
}

const (
	demoWidth  = 24
	demoHeight = 10
	tileWall   = 1
)

// demoScene builds a walled room with a crate on the floor and returns the
// moving body.
func demoScene(w *ecs.World) (*tiles.Map, ecs.Entity) {
	m := tiles.NewMap(demoWidth, demoHeight, tiles.NewAttributeDict([]uint16{0, 0xF}))
	for x := 0; x < demoWidth; x++ {
		m.SetTile(tiles.LayerBackground, x, demoHeight-1, tileWall)
	}
	for y := 0; y < demoHeight; y++ {
		m.SetTile(tiles.LayerBackground, 0, y, tileWall)
		m.SetTile(tiles.LayerBackground, demoWidth-1, y, tileWall)
	}

	crate := w.Create()
	ecs.Assign(w, crate, components.WorldPosition{X: 14, Y: demoHeight - 3})
	ecs.Assign(w, crate, components.BoundingBox(core.NewRect(0, 0, 2, 2)))
	ecs.Assign(w, crate, components.SolidBody{})

	body := w.Create()
	ecs.Assign(w, body, components.WorldPosition{X: 2, Y: 1})
	ecs.Assign(w, body, components.BoundingBox(core.NewRect(0, 0, 2, 2)))
	ecs.Assign(w, body, components.Physical{Velocity: core.Vec2f{X: 1}, GravityAffected: true})
	return m, body
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := ecs.NewWorld()
	m, body := demoScene(w)
	sys := physics.NewSystem(w, m, cfg.Game.LogicRate)

	fmt.Printf("Logic rate: %d fps (%s per frame)\n\n", cfg.Game.LogicRate, sys.FrameTime())
	fmt.Printf("  %-5s  %-4s  %-4s  %-6s  %-6s  %s\n", "Frame", "X", "Y", "VY", "Ground", "Blocked")

	for frame := 1; frame <= flagSimFrames; frame++ {
		sys.Tick()

		pos, _ := ecs.Get[components.WorldPosition](w, body)
		phys, _ := ecs.Get[components.Physical](w, body)
		fmt.Printf("  %-5d  %-4d  %-4d  %-6.2f  %-6t  %t\n",
			frame, pos.X, pos.Y, phys.Velocity.Y,
			sys.IsOnGround(body), ecs.Has[components.CollidedWithWorld](w, body))
	}
	return nil
}
