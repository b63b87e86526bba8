package renderer

import "fmt"

// Channel is the position of an input texture in the list handed to DrawElement.
// The reflection shader samples its inputs through these units, so a list in any
// other order renders garbage without any error. Lists may be shorter than
// NumChannels; trailing channels are then left unbound.
type Channel int

const (
	ChannelPosition Channel = iota
	ChannelNormal
	ChannelAlbedo
	ChannelMaterial
	ChannelEnvMap
	ChannelFloorTex
	ChannelSceneInfo
	ChannelBVH
	NumChannels
)

var channelUniforms = [NumChannels]string{
	ChannelPosition:  "u_Pos",
	ChannelNormal:    "u_Nor",
	ChannelAlbedo:    "u_Albedo",
	ChannelMaterial:  "u_Material",
	ChannelEnvMap:    "u_EnvMap",
	ChannelFloorTex:  "u_FloorTex",
	ChannelSceneInfo: "u_SceneInfo",
	ChannelBVH:       "u_BVH",
}

// Uniform returns the sampler uniform name the shader uses for ch.
func (ch Channel) Uniform() string {
	if ch < 0 || ch >= NumChannels {
		return ""
	}
	return channelUniforms[ch]
}

func (ch Channel) String() string {
	if ch < 0 || ch >= NumChannels {
		return fmt.Sprintf("Channel(%d)", int(ch))
	}
	return channelUniforms[ch][2:]
}
