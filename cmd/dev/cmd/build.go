package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gophertribe/devtool/build"
)

const (
	binary        = "dist/lidarlog"
	mainPackage   = "./cmd/lidarlog"
	configPackage = "github.com/mklimuk/lidarlog/config"
	builderImage  = "gophertribe/gobuild:1.25-bookworm"
)

// target resolves the platform to compile for; the pi preset wins over explicit cross flags.
func target(os, arch, crossOs, crossArch string, pi bool) (string, string) {
	if pi {
		return "linux", "arm64"
	}
	if crossOs != "" && crossArch != "" {
		return crossOs, crossArch
	}
	return os, arch
}

func binaryName(os, arch string) string {
	if os == runtime.GOOS && arch == runtime.GOARCH {
		return binary
	}
	return fmt.Sprintf("%s-%s-%s", binary, os, arch)
}

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the lidarlog recorder",
		RunE: func(cmd *cobra.Command, args []string) error {
			hostOs := cmd.Flag("os").Value.String()
			hostArch := cmd.Flag("arch").Value.String()
			version := cmd.Flag("version").Value.String()
			crossOs := cmd.Flag("cross-os").Value.String()
			crossArch := cmd.Flag("cross-arch").Value.String()
			pi, err := cmd.Flags().GetBool("pi")
			if err != nil {
				return fmt.Errorf("could not get pi flag: %w", err)
			}

			// native toolchain when building on the target itself
			if hostOs == runtime.GOOS && hostArch == runtime.GOARCH {
				os, arch := target(hostOs, hostArch, crossOs, crossArch, pi)
				return build.GoBuild(binaryName(os, arch), mainPackage, build.GoBuildOpts{
					Version:       version,
					InjectVersion: true,
					ConfigPackage: configPackage,
					// karalabe/hid links against libusb
					EnableCgo: true,
					Arch:      arch,
					OS:        os,
				})
			}

			noCache, err := cmd.Flags().GetBool("no-cache")
			if err != nil {
				return fmt.Errorf("could not get no-cache flag: %w", err)
			}
			dockerArgs := []string{"build", "--version", version, "--cross-os", crossOs, "--cross-arch", crossArch}
			if pi {
				dockerArgs = append(dockerArgs, "--pi")
			}
			return build.Docker(cmd.Context(), fmt.Sprintf("./dev-%s-%s", hostOs, hostArch), dockerArgs, build.DockerBuildOpts{
				NoCache: noCache,
				Image:   builderImage,
			})
		},
	}
	cmd.Flags().Bool("no-cache", false, "do not use cache when building the app")
	cmd.Flags().String("version", "latest", "version of the cli")
	cmd.Flags().String("os", runtime.GOOS, "os to build for")
	cmd.Flags().String("arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().String("cross-os", "", "os to cross-compile for")
	cmd.Flags().String("cross-arch", "", "arch to cross-compile for")
	cmd.Flags().Bool("pi", false, "cross-compile for the 64-bit Raspberry Pi on the bicycle")

	return cmd
}
