package action

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/lixenwraith/planetz/core"
	"github.com/lixenwraith/planetz/parameter"
)

// TypeGiveReward awards a reward package
const TypeGiveReward = "give_reward"

// Reward is a granted package
type Reward struct {
	Credits    int      `json:"credits"`
	Reputation int      `json:"reputation"`
	Items      []string `json:"items"`
	Cards      []string `json:"cards"`
}

type awardRequest struct {
	RewardPackageID string  `json:"reward_package_id"`
	BonusMultiplier float64 `json:"bonus_multiplier"`
}

type awardResponse struct {
	Success bool   `json:"success"`
	Rewards Reward `json:"rewards"`
	Error   string `json:"error,omitempty"`
}

// FallbackCatalog is awarded when the mission server is unreachable
var FallbackCatalog = map[string]Reward{
	"basic_combat": {Credits: 500, Reputation: 10, Items: []string{"repair_kit"}},
	"exploration":  {Credits: 300, Reputation: 15, Cards: []string{"long_range_scanner"}},
	"elite_combat": {Credits: 1500, Reputation: 30, Items: []string{"shield_booster"}, Cards: []string{"pulse_laser"}},
}

// RewardClient calls the mission server, falling back to the local catalog
type RewardClient struct {
	endpoint string
	http     *http.Client
	logger   *log.Logger
}

// NewRewardClient creates a client; an empty baseURL always uses the fallback
func NewRewardClient(baseURL string, timeout time.Duration, logger *log.Logger) *RewardClient {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = parameter.DefaultRewardTimeout
	}
	endpoint := ""
	if baseURL != "" {
		endpoint = strings.TrimRight(baseURL, "/") + parameter.RewardEndpointPath
	}
	return &RewardClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Award resolves a reward package; remote reports whether the server answered
// Blocking, call off the frame thread
func (c *RewardClient) Award(ctx context.Context, pkg string, bonus float64) (reward Reward, remote bool, err error) {
	if c.endpoint != "" {
		reward, err = c.request(ctx, pkg, bonus)
		if err == nil {
			return reward, true, nil
		}
		c.logger.Printf("[action] reward endpoint failed, using fallback: %v", err)
	}
	reward, err = Fallback(pkg, bonus)
	return reward, false, err
}

// award bounds Award by the client timeout and reports a panic as an error
func (c *RewardClient) award(pkg string, bonus float64) (reward Reward, remote bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			c.logger.Printf("[action] reward %s panic: %v\n%s", pkg, p, debug.Stack())
			reward, remote, err = Reward{}, false, fmt.Errorf("award %s: panic: %v", pkg, p)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), c.http.Timeout)
	defer cancel()
	return c.Award(ctx, pkg, bonus)
}

func (c *RewardClient) request(ctx context.Context, pkg string, bonus float64) (Reward, error) {
	body, err := json.Marshal(awardRequest{RewardPackageID: pkg, BonusMultiplier: bonus})
	if err != nil {
		return Reward{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Reward{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Reward{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Reward{}, fmt.Errorf("status %d", resp.StatusCode)
	}
	var out awardResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Reward{}, fmt.Errorf("decode: %w", err)
	}
	if !out.Success {
		return Reward{}, fmt.Errorf("server rejected %s: %s", pkg, out.Error)
	}
	return out.Rewards, nil
}

// Fallback returns the catalog entry for pkg scaled by bonus
func Fallback(pkg string, bonus float64) (Reward, error) {
	base, ok := FallbackCatalog[pkg]
	if !ok {
		return Reward{}, fmt.Errorf("unknown reward package %q", pkg)
	}
	return Reward{
		Credits:    int(math.Round(float64(base.Credits) * bonus)),
		Reputation: int(math.Round(float64(base.Reputation) * bonus)),
		Items:      append([]string(nil), base.Items...),
		Cards:      append([]string(nil), base.Cards...),
	}, nil
}

func giveRewardDefinition() Definition {
	return Definition{
		Type: TypeGiveReward,
		Params: []Param{
			{Name: "rewardPackageId", Type: String, Required: true},
			{Name: "bonusMultiplier", Type: Number, Default: parameter.DefaultBonusMultiplier, Min: bound(0.01), Max: bound(10)},
			{Name: "message", Type: String},
		},
		Build: func(p Params) (Action, error) {
			if p.Has("message") {
				p["message"] = Sanitize(p.String("message"))
			}
			return &giveReward{params: p}, nil
		},
	}
}

type giveReward struct {
	params Params
}

func (a *giveReward) Type() string   { return TypeGiveReward }
func (a *giveReward) Params() Params { return a.params }

// Execute awards on a goroutine and completes on the frame thread
func (a *giveReward) Execute(ctx *Context, done func(Result)) error {
	svc := ctx.Services
	switch {
	case svc == nil || svc.Rewards == nil:
		return missing(TypeGiveReward, "reward client")
	case svc.Scheduler == nil:
		return missing(TypeGiveReward, "scheduler")
	case svc.Inventory == nil:
		return missing(TypeGiveReward, "inventory")
	}

	pkg := a.params.String("rewardPackageId")
	bonus := a.params.Float("bonusMultiplier")
	logger := ctx.logger()

	core.Go(func() {
		reward, remote, err := svc.Rewards.award(pkg, bonus)

		svc.Scheduler.Post(func() {
			if err != nil {
				logger.Printf("[action] give_reward %s for %s: %v", pkg, ctx.WaypointID, err)
				if svc.Audio != nil {
					svc.Audio.PlaySound(parameter.SoundError, parameter.DefaultAudioVolume)
				}
				done(Result{Success: false, Message: err.Error()})
				return
			}
			svc.Inventory.Grant(reward)
			if svc.Audio != nil {
				svc.Audio.PlaySound(parameter.SoundReward, parameter.DefaultAudioVolume)
			}
			if msg := a.params.String("message"); msg != "" && svc.Comm != nil {
				svc.Comm.Show(Message{Title: "Reward", Text: msg, Duration: parameter.DefaultMessageDuration}, nil)
			}
			done(Result{
				Success: true,
				Message: fmt.Sprintf("%d credits", reward.Credits),
				Data:    map[string]any{"reward": reward, "remote": remote},
			})
		})
	})
	return nil
}
