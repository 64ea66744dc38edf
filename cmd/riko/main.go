package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hoshinoki/riko/common/environment"
	"github.com/hoshinoki/riko/common/version"
	"github.com/hoshinoki/riko/internal/riko/app"
	"github.com/hoshinoki/riko/internal/riko/matrix"
)

func main() {
	dataDir := flag.String("data", ".", "directory for chat history, memory, and config files")
	personaPath := flag.String("persona", "", "path to a persona YAML file (built-in persona when empty)")
	useMatrix := flag.Bool("matrix", false, "serve conversations over Matrix instead of the terminal")
	noVoice := flag.Bool("no-voicevox", false, "disable the VOICEVOX sidecar and speech output")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	// riko.env is a convenience for local runs; real deployments set the
	// environment directly.
	godotenv.Load("riko.env")

	apiKey, err := environment.RequiredString("GROQ_API_KEY")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\nGet a free key at https://console.groq.com\n", err)
		os.Exit(1)
	}

	config := &app.Config{
		DataDir:      *dataDir,
		PersonaPath:  *personaPath,
		APIKey:       apiKey,
		Model:        environment.StringOr("GROQ_MODEL", ""),
		BaseURL:      environment.StringOr("GROQ_BASE_URL", ""),
		DisableVoice: *noVoice,
	}

	if *useMatrix {
		matrixCfg, err := loadMatrixConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		config.Matrix = matrixCfg
	}

	riko, err := app.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize Riko: %v\n", err)
		os.Exit(1)
	}
	defer riko.Stop()

	if err := riko.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running Riko: %v\n", err)
		os.Exit(1)
	}
}

// loadMatrixConfig reads the Matrix front-end settings from the environment.
func loadMatrixConfig() (*matrix.Config, error) {
	homeserver, err := environment.RequiredString("MATRIX_HOMESERVER")
	if err != nil {
		return nil, err
	}
	userID, err := environment.RequiredString("MATRIX_USER_ID")
	if err != nil {
		return nil, err
	}
	accessToken, err := environment.RequiredString("MATRIX_ACCESS_TOKEN")
	if err != nil {
		return nil, err
	}

	var rooms []string
	for _, room := range strings.Split(environment.StringOr("MATRIX_ROOMS", ""), ",") {
		if room = strings.TrimSpace(room); room != "" {
			rooms = append(rooms, room)
		}
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("MATRIX_ROOMS is required in Matrix mode")
	}

	return &matrix.Config{
		Homeserver:  homeserver,
		UserID:      userID,
		AccessToken: accessToken,
		Rooms:       rooms,
	}, nil
}
