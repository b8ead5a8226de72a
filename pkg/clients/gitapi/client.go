package gitapi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/src-d/go-git.v4"
	"gopkg.in/src-d/go-git.v4/config"
	"gopkg.in/src-d/go-git.v4/plumbing"
	"gopkg.in/src-d/go-git.v4/plumbing/transport"
	"gopkg.in/src-d/go-git.v4/storage/memory"
)

var (
	// ErrHeadNotFound is returned when a repository has no resolvable HEAD
	ErrHeadNotFound = errors.New("The repository has no HEAD")
)

// Client is the interface for cloning and inspecting git repositories
//
//go:generate mockgen -package=gitapi -destination ./mock.go -source=client.go
type Client interface {
	CloneRepository(ctx context.Context, repositoryURI, targetPath string) (err error)
	CheckoutCommit(ctx context.Context, repositoryPath, commitHash string) (err error)
	GetLastCommitHash(ctx context.Context, repositoryURI string) (commitHash string, err error)
	DeleteRepository(ctx context.Context, repositoryPath string) (err error)
}

// NewClient returns a new gitapi.Client; with a nil sshKey ssh remotes are accessed without authentication
func NewClient(sshKey *SSHKey) Client {
	return &client{
		sshKey: sshKey,
	}
}

type client struct {
	sshKey *SSHKey
}

// CloneRepository clones into targetPath, or fetches if a clone already exists there
func (c *client) CloneRepository(ctx context.Context, repositoryURI, targetPath string) (err error) {

	if repository, openErr := git.PlainOpen(targetPath); openErr == nil {
		log.Debug().Msgf("Reusing existing clone at %v", targetPath)

		err = repository.FetchContext(ctx, &git.FetchOptions{
			RemoteName: git.DefaultRemoteName,
			Force:      true,
			Auth:       c.authFor(repositoryURI),
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("failed fetching %v into %v: %w", redact(repositoryURI), targetPath, err)
		}
		return nil
	}

	_, err = git.PlainCloneContext(ctx, targetPath, false, &git.CloneOptions{
		URL:  repositoryURI,
		Auth: c.authFor(repositoryURI),
	})
	if err != nil {
		// leave no half-cloned directory behind for the next attempt
		_ = os.RemoveAll(targetPath)
		return fmt.Errorf("failed cloning %v into %v: %w", redact(repositoryURI), targetPath, err)
	}

	return nil
}

func (c *client) CheckoutCommit(ctx context.Context, repositoryPath, commitHash string) (err error) {
	repository, err := git.PlainOpen(repositoryPath)
	if err != nil {
		return fmt.Errorf("failed opening repository %v: %w", repositoryPath, err)
	}

	worktree, err := repository.Worktree()
	if err != nil {
		return fmt.Errorf("failed opening worktree of %v: %w", repositoryPath, err)
	}

	err = worktree.Checkout(&git.CheckoutOptions{
		Hash:  plumbing.NewHash(commitHash),
		Force: true,
	})
	if err != nil {
		return fmt.Errorf("failed checking out %v in %v: %w", commitHash, repositoryPath, err)
	}

	return nil
}

// GetLastCommitHash returns the commit HEAD points to, for a local path or a remote uri
func (c *client) GetLastCommitHash(ctx context.Context, repositoryURI string) (commitHash string, err error) {

	if isLocalPath(repositoryURI) {
		repository, err := git.PlainOpen(repositoryURI)
		if err != nil {
			return "", fmt.Errorf("failed opening repository %v: %w", repositoryURI, err)
		}
		head, err := repository.Head()
		if err != nil {
			return "", fmt.Errorf("failed resolving HEAD of %v: %w", repositoryURI, err)
		}
		return head.Hash().String(), nil
	}

	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{repositoryURI},
	})

	references, err := remote.List(&git.ListOptions{
		Auth: c.authFor(repositoryURI),
	})
	if err != nil {
		return "", fmt.Errorf("failed listing references of %v: %w", redact(repositoryURI), err)
	}

	return resolveHead(references)
}

// authFor returns the ssh key for ssh remotes, http remotes carry their credentials in the uri
func (c *client) authFor(repositoryURI string) transport.AuthMethod {
	if c.sshKey == nil || !isSSHURI(repositoryURI) {
		return nil
	}
	return c.sshKey.auth
}

func resolveHead(references []*plumbing.Reference) (commitHash string, err error) {
	byName := map[plumbing.ReferenceName]*plumbing.Reference{}
	for _, r := range references {
		byName[r.Name()] = r
	}

	head, ok := byName[plumbing.HEAD]
	// follow symbolic references, bounded to avoid cycles
	for i := 0; ok && head.Type() == plumbing.SymbolicReference && i < 10; i++ {
		head, ok = byName[head.Target()]
	}
	if !ok || head.Type() != plumbing.HashReference {
		return "", ErrHeadNotFound
	}

	return head.Hash().String(), nil
}

func (c *client) DeleteRepository(ctx context.Context, repositoryPath string) (err error) {
	if err = os.RemoveAll(repositoryPath); err != nil {
		return fmt.Errorf("failed deleting repository %v: %w", repositoryPath, err)
	}
	return nil
}

func isLocalPath(repositoryURI string) bool {
	return strings.HasPrefix(repositoryURI, "/") || strings.HasPrefix(repositoryURI, ".")
}

// redact strips credentials from a repository uri before it ends up in logs
func redact(repositoryURI string) string {
	schemeEnd := strings.Index(repositoryURI, "://")
	at := strings.LastIndex(repositoryURI, "@")
	if schemeEnd < 0 || at < schemeEnd {
		return repositoryURI
	}
	return repositoryURI[:schemeEnd+3] + "***" + repositoryURI[at:]
}
