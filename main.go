package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/williamcory/buildtui/internal/app"
	"github.com/williamcory/buildtui/internal/config"
	"github.com/williamcory/buildtui/internal/messages"
	"github.com/williamcory/buildtui/internal/mock"
	"github.com/williamcory/buildtui/sdk/build"
)

func main() {
	cliApp := &cli.App{
		Name:  "buildtui",
		Usage: "Terminal client for the build-session agent backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "Backend base URL",
				Value:   "http://localhost:8000",
				EnvVars: []string{"BACKEND_URL"},
			},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			{
				Name:  "mock",
				Usage: "Run the in-memory mock backend",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "port",
						Usage: "Port to listen on",
						Value: 8000,
					},
				},
				Action: func(c *cli.Context) error {
					return mock.NewServer(c.Int("port")).Start()
				},
			},
			{
				Name:  "sessions",
				Usage: "Manage sessions",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List sessions",
						Action: listSessions,
					},
					{
						Name:      "new",
						Usage:     "Create a session",
						ArgsUsage: "[name]",
						Action:    createSession,
					},
					{
						Name:      "rm",
						Usage:     "Delete a session",
						ArgsUsage: "<session-id>",
						Action:    deleteSession,
					},
				},
			},
			{
				Name:      "send",
				Usage:     "Run one build task and print the stream",
				ArgsUsage: "<prompt>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "session",
						Usage: "Session id (a new session is created when omitted)",
					},
				},
				Action: sendTask,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(c *cli.Context) *build.Client {
	build.SetLogger(build.NewLoggerFromEnv())
	return build.NewClient(c.String("backend"))
}

func runTUI(c *cli.Context) error {
	client := newClient(c)

	prefs, err := config.LoadPreferences()
	if err != nil {
		prefs = &config.Preferences{}
	}

	model := app.New(client, prefs)
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(p)

	// Forward store notifications into the program so the sidebar
	// re-merges whenever an optimistic entry is added or reconciled.
	unsubscribe := build.PendingSessions.Subscribe(func() {
		p.Send(messages.PendingChangedMsg{})
	})
	defer unsubscribe()

	_, err = p.Run()
	return err
}

func listSessions(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessions, err := newClient(c).ListSessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions")
		return nil
	}
	for _, s := range sessions {
		fmt.Printf("%s  %-30s  %s\n", s.ID, s.Name, s.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

func createSession(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := &build.CreateSessionRequest{}
	if name := c.Args().First(); name != "" {
		req.Name = build.String(name)
	}
	session, err := newClient(c).CreateSession(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println(session.ID)
	return nil
}

func deleteSession(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("session id required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return newClient(c).DeleteSession(ctx, id)
}

func sendTask(c *cli.Context) error {
	prompt := strings.Join(c.Args().Slice(), " ")
	if prompt == "" {
		return fmt.Errorf("prompt required")
	}

	client := newClient(c)
	ctx := context.Background()

	sessionID := c.String("session")
	if sessionID == "" {
		session, err := client.CreateSession(ctx, &build.CreateSessionRequest{})
		if err != nil {
			return err
		}
		sessionID = session.ID
		fmt.Printf("session: %s\n", sessionID)
	}

	return client.ExecuteTask(ctx, sessionID, &build.MessageRequest{Content: prompt}, build.StreamHandler{
		OnEvent: func(e build.Event) {
			printPacket(build.ParsePacket(e))
		},
		OnDone: func() {
			fmt.Println()
		},
	})
}

// printPacket renders one stream packet as a plain line; message
// chunks run together as a paragraph.
func printPacket(p build.Packet) {
	switch p := p.(type) {
	case build.MessageChunkPacket:
		fmt.Print(p.Text)
	case build.ThoughtChunkPacket:
		fmt.Printf("[thinking] %s\n", p.Text)
	case build.ToolCallPacket:
		title := p.Title
		if title == "" {
			title = p.Name
		}
		fmt.Printf("[tool] %s\n", title)
	case build.ToolCallUpdatePacket:
		fmt.Printf("[tool %s] %s\n", p.Status, p.Output)
	case build.PlanPacket:
		for _, entry := range p.Entries {
			fmt.Printf("[plan %s] %s\n", entry.Status, entry.Description)
		}
	case build.FileWritePacket:
		fmt.Printf("[%s] %s\n", p.Operation, p.Path)
	case build.ArtifactPacket:
		line := fmt.Sprintf("[artifact] %s (%s)", p.Artifact.Name, p.Artifact.Type)
		if p.Artifact.PreviewURL != nil {
			line += " " + *p.Artifact.PreviewURL
		}
		fmt.Println(line)
	case build.ErrorPacket:
		fmt.Printf("[error] %s\n", p.Message)
	case build.PromptResponsePacket:
		fmt.Printf("\n[done] %s\n", p.StopReason)
	}
}
