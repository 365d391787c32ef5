package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"genso/internal/app"
	"genso/internal/bot"
	"genso/internal/config"
	"genso/internal/domain"
	"genso/internal/logx"
	"genso/internal/ports/mockroom"
)

func main() {
	cliApp := &cli.App{
		Name:  "genso",
		Usage: "element mahjong at the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Before: func(c *cli.Context) error {
			if err := config.Load(c.String("config")); err != nil {
				return err
			}
			level := c.String("log-level")
			if level == "" {
				level = config.Get().LogConf.Level
			}
			logx.Init("genso", level)
			return nil
		},
		Commands: []*cli.Command{
			playCommand(),
			roomsCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logx.Fatal("%v", err)
	}
}

func playCommand() *cli.Command {
	var seed int64
	return &cli.Command{
		Name:  "play",
		Usage: "play a game against the bot",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "deck shuffle seed, 0 for random",
				Destination: &seed,
			},
		},
		Action: func(c *cli.Context) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			rng := rand.New(rand.NewSource(seed))
			svc := app.NewService(rng)
			identity := bot.PickIdentity(rng)
			agent := bot.NewAgent(identity.ID, identity.DisplayName, rng)

			game, _, err := svc.NewGame([]app.PlayerSpec{
				{ID: "human", Name: "You", IsHuman: true},
				{ID: identity.ID, Name: identity.DisplayName},
			})
			if err != nil {
				return err
			}
			logx.Debug("game started with seed %d against %s", seed, identity.DisplayName)

			reader := bufio.NewReader(os.Stdin)
			for game.Phase == domain.PhasePlaying {
				if game.CurrentPlayer().IsHuman {
					if err := playHumanTurn(reader, svc, game); err != nil {
						return err
					}
				} else if err := playBotTurn(svc, game, agent); err != nil {
					if errors.Is(err, app.ErrEmptyPile) {
						// Deck exhausted and the bot declined the discard
						// top. No legal move remains.
						fmt.Println("\nThe deck is empty and no one can draw. Stalemate.")
						game.Phase = domain.PhaseEnded
						break
					}
					return err
				}
			}

			printResult(game)
			return nil
		},
	}
}

func playHumanTurn(reader *bufio.Reader, svc *app.Service, game *domain.Game) error {
	player := game.CurrentPlayer()
	fmt.Printf("\n--- Turn %d ---\n", game.Turn)
	if top, ok := game.DiscardTop(); ok {
		fmt.Printf("Discard pile: %s (%d)   Deck: %d cards\n", top.Element.Symbol, top.Element.AtomicNumber, len(game.Deck))
	} else {
		fmt.Printf("Discard pile: empty   Deck: %d cards\n", len(game.Deck))
	}
	printHand(player.Hand)

	for {
		answer := prompt(reader, "Draw from [d]eck or discard [p]ile? ")
		fromDiscard := strings.HasPrefix(strings.ToLower(answer), "p")
		if _, err := svc.Draw(game, fromDiscard); err != nil {
			fmt.Printf("Cannot draw: %v\n", err)
			continue
		}
		break
	}
	printHand(player.Hand)

	for {
		answer := prompt(reader, fmt.Sprintf("Discard which card? (1-%d) ", len(player.Hand)))
		idx, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil || idx < 1 || idx > len(player.Hand) {
			fmt.Println("Pick a card number from your hand.")
			continue
		}
		if _, err := svc.Discard(game, idx-1); err != nil {
			fmt.Printf("Cannot discard: %v\n", err)
			continue
		}
		break
	}

	matches := domain.Evaluate(player.Hand)
	if total := domain.TotalScore(matches); total > 0 && game.Phase == domain.PhasePlaying {
		fmt.Printf("Your hand is worth %d points (win at %d).\n", total, domain.WinThreshold)
	}
	return nil
}

func playBotTurn(svc *app.Service, game *domain.Game, agent *bot.Agent) error {
	name := game.CurrentPlayer().Name
	think := config.Get().BotConf
	if think.MaxThinkDelay > think.MinThinkDelay {
		time.Sleep(think.MinThinkDelay + time.Duration(rand.Int63n(int64(think.MaxThinkDelay-think.MinThinkDelay))))
	}

	events, err := agent.PlayTurn(svc, game)
	if err != nil {
		return fmt.Errorf("bot turn: %w", err)
	}
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.CardDrawnPayload:
			if p.FromDiscard {
				fmt.Printf("%s takes %s from the discard pile.\n", name, p.Card.Element.Symbol)
			} else {
				fmt.Printf("%s draws from the deck.\n", name)
			}
		case app.CardDiscardedPayload:
			fmt.Printf("%s discards %s (%d).\n", name, p.Card.Element.Symbol, p.Card.Element.AtomicNumber)
		}
	}
	return nil
}

func printHand(hand []domain.Card) {
	fmt.Print("Your hand:")
	for i, c := range hand {
		fmt.Printf("  %d:%s(%d)", i+1, c.Element.Symbol, c.Element.AtomicNumber)
	}
	fmt.Println()
}

func printResult(game *domain.Game) {
	for _, pl := range game.Players {
		if pl.ID != game.Winner {
			continue
		}
		fmt.Printf("\n%s wins!\n", pl.Name)
		for _, m := range domain.Evaluate(pl.Hand) {
			fmt.Printf("  %s: %d points\n", m.Name, m.Points)
		}
		fmt.Printf("Total: %d points\n", pl.Score)
		return
	}
	fmt.Println("\nGame over with no winner.")
}

func prompt(reader *bufio.Reader, question string) string {
	fmt.Print(question)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func roomsCommand() *cli.Command {
	return &cli.Command{
		Name:  "rooms",
		Usage: "browse the lobby (mock backend)",
		Action: func(c *cli.Context) error {
			cfg := config.Get()
			tokens := app.NewRoomTokenService(cfg.RoomConf.TokenSecret, cfg.RoomConf.TokenIssuer, cfg.RoomConf.TokenTTL)
			svc := mockroom.NewService(tokens, cfg.RoomConf.ListLatency, cfg.RoomConf.ActionLatency)

			ctx, cancel := context.WithTimeout(c.Context, 5*time.Second)
			defer cancel()

			if err := svc.Connect(ctx, "human"); err != nil {
				return err
			}
			defer svc.Disconnect(context.Background())

			rooms, err := svc.ListRooms(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%-24s %-10s %-8s %s\n", "ROOM", "STATUS", "SEATS", "PRIVATE")
			for _, room := range rooms {
				private := ""
				if room.IsPrivate {
					private = "yes"
				}
				fmt.Printf("%-24s %-10s %d/%-6d %s\n", room.Name, room.Status, len(room.Players), room.MaxPlayers, private)
			}
			return nil
		},
	}
}
