package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/tctui",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Coach: CoachConfig{
			ServerURL: "http://localhost:5000",
		},
		WelcomeEnabled: true,
	}
}

func GenerateSystemConfigTemplate() string {
	return `# TCTUI System Configuration
# Location: ~/.config/tctui/settings.toml
# This file uses TOML format: https://toml.io

# Directory where sessions and user config are stored
data_directory = "~/.local/share/tctui"
`
}

func GenerateUserConfigTemplate() string {
	return `# TCTUI User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[coach]
# Tennis coach backend URL
server_url = "http://localhost:5000"

# Show the welcome banner on empty sessions
welcome_enabled = true
`
}
