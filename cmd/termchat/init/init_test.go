package initcmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	initcmder "github.com/papercomputeco/termchat/cmd/termchat/init"
	"github.com/papercomputeco/termchat/pkg/config"
)

var _ = Describe("NewInitCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := initcmder.NewInitCmd()
		Expect(cmd.Use).To(Equal("init"))
	})

	It("rejects any arguments", func() {
		cmd := initcmder.NewInitCmd()
		Expect(cmd.Args(cmd, []string{})).To(Succeed())
		Expect(cmd.Args(cmd, []string{"extra"})).NotTo(Succeed())
	})

	It("has a --preset flag defaulting to openrouter", func() {
		cmd := initcmder.NewInitCmd()
		f := cmd.Flags().Lookup("preset")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal("openrouter"))
	})
})

var _ = Describe("Init command execution", func() {
	var (
		tmpDir  string
		origDir string
		out     *bytes.Buffer
	)

	execute := func(args ...string) error {
		cmd := initcmder.NewInitCmd()
		cmd.SetOut(out)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	readConfig := func() config.Config {
		var cfg config.Config
		_, err := toml.DecodeFile(filepath.Join(tmpDir, ".termchat", "config.toml"), &cfg)
		Expect(err).NotTo(HaveOccurred())
		return cfg
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "termchat-init-test-*")
		Expect(err).NotTo(HaveOccurred())
		tmpDir, err = filepath.EvalSymlinks(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		Expect(os.Chdir(tmpDir)).To(Succeed())
		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tmpDir)
	})

	It("creates a .termchat directory with a default config", func() {
		Expect(execute()).To(Succeed())

		info, err := os.Stat(filepath.Join(tmpDir, ".termchat"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())

		cfg := readConfig()
		defaults := config.NewDefaultConfig()
		Expect(cfg.Completion.Endpoint).To(Equal(defaults.Completion.Endpoint))
		Expect(cfg.Completion.Model).To(Equal(defaults.Completion.Model))
		Expect(cfg.Client.Title).To(Equal("Terminal Chat"))
	})

	It("writes the requested preset", func() {
		Expect(execute("--preset", "ollama")).To(Succeed())

		cfg := readConfig()
		Expect(cfg.Completion.Endpoint).To(Equal("http://localhost:11434/v1/chat/completions"))
		Expect(cfg.Completion.Model).To(Equal("llama3.2"))
	})

	It("leaves an existing config alone", func() {
		Expect(execute("--preset", "openai")).To(Succeed())
		Expect(execute("--preset", "ollama")).To(Succeed())

		Expect(out.String()).To(ContainSubstring("Already initialized"))
		Expect(readConfig().Completion.Model).To(Equal("gpt-4o-mini"))
	})

	It("overwrites an existing config with --force", func() {
		Expect(execute("--preset", "openai")).To(Succeed())
		Expect(execute("--preset", "ollama", "--force")).To(Succeed())

		Expect(readConfig().Completion.Model).To(Equal("llama3.2"))
	})

	It("rejects an unknown preset", func() {
		err := execute("--preset", "nonexistent")
		Expect(err).To(MatchError(ContainSubstring("unknown preset")))

		_, statErr := os.Stat(filepath.Join(tmpDir, ".termchat"))
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})
})
