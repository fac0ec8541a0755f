package config

type BotConfig struct {
	APIToken string `yaml:"token"`
}

func (b *BotConfig) Token() string {
	return b.APIToken
}

type TelegramConfig struct {
	Financial BotConfig `yaml:"financial"`
	Report    BotConfig `yaml:"report"`
}
