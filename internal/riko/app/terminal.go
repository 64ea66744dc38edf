package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/hoshinoki/riko/internal/riko/config"
	"github.com/hoshinoki/riko/internal/riko/voice"
)

var (
	promptColor = color.New(color.FgGreen, color.Bold)
	nameColor   = color.New(color.FgMagenta, color.Bold)
	infoColor   = color.New(color.FgCyan)
	errColor    = color.New(color.FgRed)
)

// runTerminal serves conversations on stdin/stdout until the user leaves or
// the context is cancelled.
func (a *App) runTerminal(ctx context.Context) error {
	name := a.engine.Persona().Name

	nameColor.Printf("%s\n", name)
	if user := a.engine.UserName(); user != "" {
		infoColor.Printf("Welcome back, %s!\n", user)
	}
	infoColor.Println("Type /help for commands, or just start chatting.")
	fmt.Println()

	current := a.sessions.Create()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		promptColor.Print("You> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "exit", "quit", "bye":
			infoColor.Println("See you later!")
			return nil
		case "clear":
			a.engine.ClearMemory()
			infoColor.Println("Memory cleared. Starting fresh.")
			continue
		case "stats":
			a.printStats()
			continue
		}

		if strings.HasPrefix(line, "/") {
			current = a.runCommand(ctx, line, current)
			continue
		}

		answer := a.reply(ctx, current, line)
		nameColor.Printf("%s> ", name)
		fmt.Println(answer)
		a.speak(ctx, answer)
	}
}

// runCommand handles a slash command and returns the (possibly changed)
// current session id.
func (a *App) runCommand(ctx context.Context, line string, current int) int {
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "/help":
		infoColor.Println("/new            start a new chat")
		infoColor.Println("/list           list chats")
		infoColor.Println("/switch <n>     switch to chat n")
		infoColor.Println("/delete <n>     delete chat n")
		infoColor.Println("/clear          clear memory and start fresh")
		infoColor.Println("/stats          show conversation stats")
		infoColor.Println("/settings       show language and theme settings")
		infoColor.Println("/listen         take one voice input")
		infoColor.Println("exit, quit, bye leave")

	case "/new":
		current = a.sessions.Create()
		infoColor.Printf("Started chat %d.\n", current+1)

	case "/list":
		chats := a.sessions.List()
		if len(chats) == 0 {
			infoColor.Println("No chats yet.")
			break
		}
		for _, chat := range chats {
			marker := " "
			if chat.ID == current {
				marker = "*"
			}
			infoColor.Printf("%s %d: %s (%d messages)\n", marker, chat.ID+1, chat.Title, len(chat.Messages))
		}

	case "/switch":
		id, ok := parseChatArg(args)
		if !ok {
			errColor.Println("Usage: /switch <n>")
			break
		}
		if _, found := a.sessions.Get(id); !found {
			errColor.Printf("No chat %d.\n", id+1)
			break
		}
		current = id
		infoColor.Printf("Switched to chat %d.\n", id+1)

	case "/delete":
		id, ok := parseChatArg(args)
		if !ok {
			errColor.Println("Usage: /delete <n>")
			break
		}
		if _, found := a.sessions.Get(id); !found {
			errColor.Printf("No chat %d.\n", id+1)
			break
		}
		a.sessions.Delete(id)
		infoColor.Printf("Deleted chat %d.\n", id+1)
		// IDs were renumbered; fall back to the last chat or a fresh one.
		if a.sessions.Len() == 0 {
			current = a.sessions.Create()
		} else if current >= a.sessions.Len() {
			current = a.sessions.Len() - 1
		}

	case "/clear":
		a.engine.ClearMemory()
		infoColor.Println("Memory cleared. Starting fresh.")

	case "/stats":
		a.printStats()

	case "/settings":
		for _, line := range a.settingsLines() {
			infoColor.Println(line)
		}

	case "/listen":
		a.listenOnce(ctx, current)

	default:
		errColor.Printf("Unknown command %s. Try /help.\n", cmd)
	}
	return current
}

func (a *App) printStats() {
	stats := a.engine.Stats()
	infoColor.Printf("Total messages: %d\n", stats.TotalMessages)
	infoColor.Printf("First interaction: %s\n", stats.FirstInteraction)
	if user := a.engine.UserName(); user != "" {
		infoColor.Printf("Your name: %s\n", user)
	}
}

// settingsLines renders the config.json view shown by /settings: the active
// language with the codes a user can put in the document, the resolved theme
// palette, and whether speech output is on.
func (a *App) settingsLines() []string {
	var codes []string
	for _, l := range config.Languages() {
		codes = append(codes, l.Code)
	}
	palette := a.settings.Theme()

	lines := []string{
		fmt.Sprintf("Language: %s (%s)", config.LanguageName(a.settings.Language), a.settings.Language),
		fmt.Sprintf("  available: %s", strings.Join(codes, ", ")),
		fmt.Sprintf("Theme: %s (accent %s on %s)", a.settings.UI.ThemeName, palette.Accent, palette.Background),
		fmt.Sprintf("  available: %s", strings.Join(config.ThemeNames(), ", ")),
	}
	if a.settings.Voice.TTSEnabled {
		lines = append(lines, "Speech output: on")
	} else {
		lines = append(lines, "Speech output: off")
	}
	return lines
}

// listenOnce takes a single voice input and runs it through the engine as if
// it had been typed.
func (a *App) listenOnce(ctx context.Context, current int) {
	if !a.listener.Available() {
		errColor.Println("Voice input is not available.")
		return
	}
	infoColor.Println("Listening...")
	result := <-a.listener.Listen(ctx, config.SpeechTag(a.settings.Language))
	if result.Err != nil {
		switch voice.KindOf(result.Err) {
		case voice.KindNoSpeech:
			errColor.Println("Didn't hear anything.")
		case voice.KindUnintelligible:
			errColor.Println("Sorry, I couldn't make that out.")
		default:
			errColor.Printf("Voice input failed: %s\n", result.Err)
		}
		return
	}
	promptColor.Printf("You said: %s\n", result.Text)
	answer := a.reply(ctx, current, result.Text)
	nameColor.Printf("%s> ", a.engine.Persona().Name)
	fmt.Println(answer)
	a.speak(ctx, answer)
}

// parseChatArg converts a 1-based chat number argument to a 0-based id.
func parseChatArg(args []string) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}
