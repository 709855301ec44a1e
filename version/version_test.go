package version

import "testing"

func TestGet_DevBuild(t *testing.T) {
	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected dev version, got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev build should not be a release")
	}
	if len(info.GitCommit) > 12 {
		t.Errorf("commit should be shortened, got %q", info.GitCommit)
	}
}

func TestGet_ReleaseVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "1.4.0"
	if !Get().IsRelease {
		t.Error("expected tagged version to be a release")
	}
}
