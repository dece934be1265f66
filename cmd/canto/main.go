package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	canto "github.com/adaleix/go-canto"
	"github.com/adaleix/go-canto/metadata"
	"github.com/adaleix/go-canto/player"
	"github.com/adaleix/go-canto/session"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("canto", pflag.ExitOnError)
	flags.StringP("config", "c", "config.yml", "path to the configuration file")
	flags.String("gateway", "", "gateway address")
	flags.String("username", "", "account username")
	flags.String("token", "", "account access token")
	flags.Int("bitrate", 0, "preferred bitrate in kbit/s (96, 160 or 320)")
	flags.String("country", "", "override the listener country")
	flags.String("log_level", "", "log level (debug, info, warn, error)")
	flags.String("credentials_path", "", "path of the cached credentials file")
	_ = flags.Parse(os.Args[1:])

	cfg, err := loadConfig(flags)
	if err != nil {
		log.WithError(err).Fatal("failed loading configuration")
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid log level: %s", cfg.LogLevel)
	}
	log.SetLevel(level)

	if len(flags.Args()) != 1 {
		log.Fatal("usage: canto [options] <canto:track:... uri or hex track id>")
	}

	id, err := parseTrackId(flags.Args()[0])
	if err != nil {
		log.WithError(err).Fatal("failed parsing track id")
	}

	var creds any
	if stored, err := readStoredCredentials(cfg.CredentialsPath); err == nil {
		creds = session.StoredCredentials{Username: stored.Username, Data: stored.Data}
	} else if len(cfg.Username) > 0 && len(cfg.Token) > 0 {
		creds = session.TokenCredentials{Username: cfg.Username, Token: cfg.Token}
	} else {
		log.Fatal("no credentials available, set username and token")
	}

	sess, err := session.NewSession(&session.Options{
		Addr:        func() string { return cfg.Gateway },
		Credentials: creds,
		Log:         LogrusAdapter{log.NewEntry(log.StandardLogger())},
	})
	if err != nil {
		log.WithError(err).Fatal("failed connecting session")
	}
	defer sess.Close()

	if tokenCreds, ok := creds.(session.TokenCredentials); ok {
		if err := writeStoredCredentials(cfg.CredentialsPath, &storedCredentials{
			Username: sess.Username(), Data: []byte(tokenCreds.Token),
		}); err != nil {
			log.WithError(err).Warnf("failed caching credentials")
		}
	}

	country := cfg.Country
	if len(country) == 0 {
		country = awaitCountry(sess)
	}

	path, err := resolve(context.Background(), sess, id, country, cfg.Bitrate)
	if err != nil {
		log.WithError(err).Fatal("failed resolving track")
	} else if path == nil {
		log.Fatalf("%s is not available", id)
	}

	out, _ := json.MarshalIndent(struct {
		Item       string `json:"item"`
		File       string `json:"file"`
		Format     string `json:"format"`
		DurationMs int64  `json:"duration_ms"`
	}{
		Item:       path.ItemId.Uri(),
		File:       path.FileId.Hex(),
		Format:     path.Format.String(),
		DurationMs: path.Duration.Milliseconds(),
	}, "", "  ")
	fmt.Println(string(out))
}

// resolve composes the full flow: fetch the track, route around a regional
// restriction through the first allowed alternative, then pick the file
// variant for the preferred bitrate. A nil path means the track is genuinely
// unavailable, as opposed to a fetch failure.
func resolve(ctx context.Context, sess *session.Session, id canto.ItemId, country string, bitrate int) (*player.AudioPath, error) {
	track, err := metadata.FetchTrack(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if len(country) == 2 && player.TrackIsRestricted(track, country) {
		altId, ok := player.FindAllowedAlternative(track, country)
		if !ok {
			return nil, nil
		}

		log.Infof("track is restricted in %s, using alternative %s", country, altId)

		if track, err = metadata.FetchTrack(ctx, sess, altId); err != nil {
			return nil, err
		}
	}

	return player.ToAudioPath(track, bitrate), nil
}

// awaitCountry waits a few seconds for the gateway to announce the
// listener country after login.
func awaitCountry(sess *session.Session) string {
	for i := 0; i < 50; i++ {
		if country := sess.Country(); len(country) > 0 {
			return country
		}
		time.Sleep(100 * time.Millisecond)
	}

	log.Warn("gateway did not announce a listener country, skipping restriction checks")
	return ""
}

func parseTrackId(arg string) (canto.ItemId, error) {
	if strings.HasPrefix(arg, "canto:") {
		return canto.ItemIdFromUri(arg)
	}

	raw, err := hex.DecodeString(arg)
	if err != nil {
		return canto.ItemId{}, fmt.Errorf("invalid hex track id: %w", err)
	}

	id, ok := canto.ItemIdFromRaw(raw, canto.ItemIdTypeTrack)
	if !ok {
		return canto.ItemId{}, fmt.Errorf("empty track id")
	}

	return id, nil
}
