package winget

// Installer 单个安装器条目
type Installer struct {
	Architecture      string            `yaml:"Architecture"`
	InstallerType     string            `yaml:"InstallerType"`
	Scope             string            `yaml:"Scope"`
	InstallerUrl      string            `yaml:"InstallerUrl"`
	InstallerSha256   string            `yaml:"InstallerSha256"`
	InstallerSwitches map[string]string `yaml:"InstallerSwitches"`
}

// InstallerManifest winget 安装器清单(<PackageIdentifier>.installer.yaml)
// 顶层字段为所有安装器的公共值,条目级字段存在时覆盖顶层值
type InstallerManifest struct {
	PackageIdentifier string            `yaml:"PackageIdentifier"`
	PackageVersion    string            `yaml:"PackageVersion"`
	InstallerType     string            `yaml:"InstallerType"`
	Scope             string            `yaml:"Scope"`
	InstallModes      []string          `yaml:"InstallModes"`
	InstallerSwitches map[string]string `yaml:"InstallerSwitches"`
	Installers        []Installer       `yaml:"Installers"`
}

// Architectures 返回清单中出现过的架构集合,保持首次出现顺序
func (m *InstallerManifest) Architectures() []string {
	seen := make(map[string]struct{}, len(m.Installers))
	var out []string
	for _, inst := range m.Installers {
		if inst.Architecture == "" {
			continue
		}
		if _, ok := seen[inst.Architecture]; ok {
			continue
		}
		seen[inst.Architecture] = struct{}{}
		out = append(out, inst.Architecture)
	}
	return out
}

// InstallerFor 返回指定架构的第一个安装器
func (m *InstallerManifest) InstallerFor(arch string) (Installer, bool) {
	for _, inst := range m.Installers {
		if inst.Architecture == arch {
			return inst, true
		}
	}
	return Installer{}, false
}
