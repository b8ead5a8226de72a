package gitapi

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
	gitssh "gopkg.in/src-d/go-git.v4/plumbing/transport/ssh"
)

// SSHKey is the key pair the agent authenticates to version control servers with
type SSHKey struct {
	auth          *gitssh.PublicKeys
	authorizedKey string
}

// LoadOrGenerateSSHKey reads the private key at the configured path, generating and storing an ed25519 key if none exists yet
func LoadOrGenerateSSHKey(config *api.GitConfig) (*SSHKey, error) {
	data, err := os.ReadFile(config.SSHPrivateKeyPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Msgf("Generating ssh key at %v", config.SSHPrivateKeyPath)
		data, err = generatePrivateKey(config.SSHPrivateKeyPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed reading ssh key %v: %w", config.SSHPrivateKeyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed parsing ssh key %v: %w", config.SSHPrivateKeyPath, err)
	}

	auth := &gitssh.PublicKeys{User: config.SSHUser, Signer: signer}
	if config.KnownHostsPath != "" {
		auth.HostKeyCallback, err = gitssh.NewKnownHostsCallback(config.KnownHostsPath)
		if err != nil {
			return nil, fmt.Errorf("failed reading known hosts %v: %w", config.KnownHostsPath, err)
		}
	} else {
		log.Warn().Msg("No known hosts configured, ssh host keys are not verified")
		auth.HostKeyCallback = ssh.InsecureIgnoreHostKey()
	}

	return &SSHKey{
		auth:          auth,
		authorizedKey: strings.TrimSpace(string(ssh.MarshalAuthorizedKey(signer.PublicKey()))),
	}, nil
}

// AuthorizedKey returns the public key in authorized_keys format
func (k *SSHKey) AuthorizedKey() string {
	if k == nil {
		return ""
	}
	return k.authorizedKey
}

func generatePrivateKey(path string) ([]byte, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	block, err := ssh.MarshalPrivateKey(privateKey, "build-agent")
	if err != nil {
		return nil, err
	}
	data := pem.EncodeToMemory(block)

	if err = os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	if err = os.WriteFile(path, data, 0600); err != nil {
		return nil, err
	}

	return data, nil
}

// isSSHURI matches ssh:// uris and scp-like addresses such as git@host:org/repo.git
func isSSHURI(repositoryURI string) bool {
	if strings.HasPrefix(repositoryURI, "ssh://") {
		return true
	}
	if strings.Contains(repositoryURI, "://") || isLocalPath(repositoryURI) {
		return false
	}
	at := strings.Index(repositoryURI, "@")
	return at > 0 && strings.Index(repositoryURI[at:], ":") > 0
}
