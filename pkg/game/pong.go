package game

import (
	"math/rand"

	"github.com/chewxy/math32"

	"pong/internal/util"
	"pong/pkg/config"
	"pong/pkg/engine"
)

// Paddle is one player's paddle. Pos.Y is the paddle's vertical center;
// Pos.X is the inner edge for the left paddle and the outer edge for the
// right one, matching how the renderer call sites offset them.
type Paddle struct {
	Score  int
	Pos    engine.Vec2
	Width  float32
	Height float32
}

// Ball is the ball's center position, velocity and radius.
type Ball struct {
	Pos      engine.Vec2
	Velocity engine.Vec2
	Radius   float32
}

// Input captures the movement intents for one update step. The caller maps
// keys to intents; the game never reads input devices.
type Input struct {
	LeftUp    bool
	LeftDown  bool
	RightUp   bool
	RightDown bool
	Serve     bool
}

// State is the whole game state. Update is deterministic given the injected
// random source.
type State struct {
	Left  Paddle
	Right Paddle
	Ball  Ball

	cfg config.GameConfig
	rng *rand.Rand
}

// NewState positions both paddles at mid-height, the ball at the center of
// the field moving right and slightly down.
func NewState(cfg config.GameConfig, width, height float32, rng *rand.Rand) *State {
	s := &State{
		Left: Paddle{
			Pos:    engine.V2(0, height/2),
			Width:  cfg.PaddleWidth,
			Height: cfg.PaddleHeight,
		},
		Right: Paddle{
			Pos:    engine.V2(width, height/2),
			Width:  cfg.PaddleWidth,
			Height: cfg.PaddleHeight,
		},
		Ball: Ball{
			Pos:      engine.V2(width/2, height/2),
			Velocity: engine.V2(cfg.BallSpeed, cfg.BallSpeed/3),
			Radius:   cfg.BallRadius,
		},
		cfg: cfg,
		rng: rng,
	}
	return s
}

// Update advances the simulation by dt seconds within a field of the given
// size: paddle movement, wall and paddle bounces, scoring, and serving.
func (s *State) Update(dt float32, in Input, width, height float32) {
	if in.Serve {
		s.serve(width, height)
	}

	s.movePaddle(&s.Left, in.LeftUp, in.LeftDown, dt, height)
	s.movePaddle(&s.Right, in.RightUp, in.RightDown, dt, height)

	s.Ball.Pos.X += s.Ball.Velocity.X * dt
	s.Ball.Pos.Y += s.Ball.Velocity.Y * dt

	// Top and bottom walls
	if s.Ball.Pos.Y-s.Ball.Radius < 0 {
		s.Ball.Pos.Y = s.Ball.Radius
		s.Ball.Velocity.Y = math32.Abs(s.Ball.Velocity.Y)
	}
	if s.Ball.Pos.Y+s.Ball.Radius > height {
		s.Ball.Pos.Y = height - s.Ball.Radius
		s.Ball.Velocity.Y = -math32.Abs(s.Ball.Velocity.Y)
	}

	// Left paddle: bounce right, angled by where the ball hit
	if s.Ball.Pos.X-s.Ball.Radius < s.Left.Pos.X+s.Left.Width &&
		s.Ball.Pos.Y > s.Left.Pos.Y-s.Left.Height/2 &&
		s.Ball.Pos.Y < s.Left.Pos.Y+s.Left.Height/2 {
		s.Ball.Pos.X = s.Left.Pos.X + s.Left.Width + s.Ball.Radius
		angle := s.bounceAngle(s.Left)
		s.Ball.Velocity.X = s.cfg.BallSpeed * math32.Cos(angle)
		s.Ball.Velocity.Y = -s.cfg.BallSpeed * math32.Sin(angle)
	}

	// Right paddle: bounce left
	if s.Ball.Pos.X+s.Ball.Radius > s.Right.Pos.X-s.Right.Width &&
		s.Ball.Pos.Y > s.Right.Pos.Y-s.Right.Height/2 &&
		s.Ball.Pos.Y < s.Right.Pos.Y+s.Right.Height/2 {
		s.Ball.Pos.X = s.Right.Pos.X - s.Right.Width - s.Ball.Radius
		angle := s.bounceAngle(s.Right)
		s.Ball.Velocity.X = -s.cfg.BallSpeed * math32.Cos(angle)
		s.Ball.Velocity.Y = -s.cfg.BallSpeed * math32.Sin(angle)
	}

	// Out of bounds: score and re-serve
	if s.Ball.Pos.X < 0 {
		s.Right.Score++
		s.serve(width, height)
	}
	if s.Ball.Pos.X > width {
		s.Left.Score++
		s.serve(width, height)
	}
}

func (s *State) movePaddle(p *Paddle, up, down bool, dt, height float32) {
	if up {
		p.Pos.Y -= s.cfg.PaddleSpeed * dt
	}
	if down {
		p.Pos.Y += s.cfg.PaddleSpeed * dt
	}
	p.Pos.Y = util.Clamp(p.Pos.Y, p.Height/2, height-p.Height/2)
}

// bounceAngle maps the hit position on the paddle to [-45°, +45°] from
// horizontal: center hits go straight, edge hits go steep.
func (s *State) bounceAngle(p Paddle) float32 {
	relative := (p.Pos.Y - s.Ball.Pos.Y) / (p.Height / 2)
	return relative * math32.Pi / 4
}

// serve recenters the ball and launches it toward a random side at a random
// angle within 45° of horizontal.
func (s *State) serve(width, height float32) {
	s.Ball.Pos = engine.V2(width/2, height/2)

	angle := s.random()*math32.Pi/2 - math32.Pi/4
	direction := float32(1)
	if s.randomBool() {
		direction = -1
	}

	s.Ball.Velocity = engine.V2(
		direction*s.cfg.BallSpeed*math32.Cos(angle),
		s.cfg.BallSpeed*math32.Sin(angle),
	)
}

func (s *State) random() float32 {
	if s.rng != nil {
		return s.rng.Float32()
	}
	return util.RandomFloat(0, 1)
}

func (s *State) randomBool() bool {
	if s.rng != nil {
		return s.rng.Intn(2) == 1
	}
	return util.RandomBool()
}
