package models

type Config struct {
	Debug bool `envconfig:"GENOSCOPE_DEBUG"`

	Server struct {
		HttpPort        string `envconfig:"GENOSCOPE_HTTP_PORT" default:"3003"`
		WebSocketPort   string `envconfig:"GENOSCOPE_WS_PORT" default:"3001"`
		Name            string `envconfig:"GENOSCOPE_SERVER_NAME" default:"genoscope-tools"`
		Version         string `envconfig:"GENOSCOPE_SERVER_VERSION" default:"1.0.0"`
		UiCallTimeoutMs int    `envconfig:"GENOSCOPE_UI_CALL_TIMEOUT_MS" default:"30000"`
	}

	Tui struct {
		LayoutPath string `envconfig:"GENOSCOPE_LAYOUT_PATH"`
		ServerUrl  string `envconfig:"GENOSCOPE_SERVER_URL"`
	}

	External struct {
		UniProtUrl   string `envconfig:"GENOSCOPE_UNIPROT_URL" default:"https://rest.uniprot.org"`
		RcsbUrl      string `envconfig:"GENOSCOPE_RCSB_URL" default:"https://search.rcsb.org"`
		RcsbDataUrl  string `envconfig:"GENOSCOPE_RCSB_DATA_URL" default:"https://data.rcsb.org"`
		RcsbFilesUrl string `envconfig:"GENOSCOPE_RCSB_FILES_URL" default:"https://files.rcsb.org"`
		AlphaFoldUrl string `envconfig:"GENOSCOPE_ALPHAFOLD_URL" default:"https://alphafold.ebi.ac.uk"`
		InterProUrl  string `envconfig:"GENOSCOPE_INTERPRO_URL" default:"https://www.ebi.ac.uk/Tools/services/rest/iprscan5"`
		InterProMail string `envconfig:"GENOSCOPE_INTERPRO_EMAIL" default:"genoscope@example.org"`
		Evo2Url      string `envconfig:"GENOSCOPE_EVO2_URL" default:"https://health.api.nvidia.com/v1/biology/arc/evo2-40b"`
		Evo2ApiKey   string `envconfig:"NVIDIA_EVO2_API_KEY"`
	}
}
