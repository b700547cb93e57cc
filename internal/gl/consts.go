package gl

// WebGL2 enum values. Only the names the backend emits are listed.
const (
	ALREADY_SIGNALED                          = 0x911A
	ALWAYS                                    = 0x0207
	ARRAY_BUFFER                              = 0x8892
	BACK                                      = 0x0405
	BLEND                                     = 0x0BE2
	BYTE                                      = 0x1400
	CCW                                       = 0x0901
	CLAMP_TO_EDGE                             = 0x812F
	COLOR                                     = 0x1800
	COLOR_ATTACHMENT0                         = 0x8CE0
	COLOR_BUFFER_BIT                          = 0x4000
	COMPARE_REF_TO_TEXTURE                    = 0x884E
	COMPILE_STATUS                            = 0x8B81
	CONDITION_SATISFIED                       = 0x911C
	CONSTANT_ALPHA                            = 0x8003
	CONSTANT_COLOR                            = 0x8001
	COPY_READ_BUFFER                          = 0x8F36
	COPY_WRITE_BUFFER                         = 0x8F37
	CULL_FACE                                 = 0x0B44
	CW                                        = 0x0900
	DECR                                      = 0x1E03
	DECR_WRAP                                 = 0x8508
	DEPTH                                     = 0x1801
	DEPTH24_STENCIL8                          = 0x88F0
	DEPTH32F_STENCIL8                         = 0x8CAD
	DEPTH_ATTACHMENT                          = 0x8D00
	DEPTH_BUFFER_BIT                          = 0x0100
	DEPTH_COMPONENT                           = 0x1902
	DEPTH_COMPONENT16                         = 0x81A5
	DEPTH_COMPONENT24                         = 0x81A6
	DEPTH_COMPONENT32F                        = 0x8CAC
	DEPTH_STENCIL                             = 0x84F9
	DEPTH_STENCIL_ATTACHMENT                  = 0x821A
	DEPTH_TEST                                = 0x0B71
	DONT_CARE                                 = 0x1100
	DRAW_FRAMEBUFFER                          = 0x8CA9
	DST_ALPHA                                 = 0x0304
	DST_COLOR                                 = 0x0306
	DYNAMIC_DRAW                              = 0x88E8
	DYNAMIC_READ                              = 0x88E9
	ELEMENT_ARRAY_BUFFER                      = 0x8893
	EQUAL                                     = 0x0202
	FLOAT                                     = 0x1406
	FLOAT_32_UNSIGNED_INT_24_8_REV            = 0x8DAD
	FRAGMENT_SHADER                           = 0x8B30
	FRAMEBUFFER                               = 0x8D40
	FRAMEBUFFER_COMPLETE                      = 0x8CD5
	FRAMEBUFFER_INCOMPLETE_ATTACHMENT         = 0x8CD6
	FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT = 0x8CD7
	FRAMEBUFFER_INCOMPLETE_MULTISAMPLE        = 0x8D56
	FRONT                                     = 0x0404
	FRONT_AND_BACK                            = 0x0408
	FUNC_ADD                                  = 0x8006
	FUNC_REVERSE_SUBTRACT                     = 0x800B
	FUNC_SUBTRACT                             = 0x800A
	GEQUAL                                    = 0x0206
	GREATER                                   = 0x0204
	HALF_FLOAT                                = 0x140B
	INCR                                      = 0x1E02
	INCR_WRAP                                 = 0x8507
	INT                                       = 0x1404
	INT_2_10_10_10_REV                        = 0x8D9F
	INVALID_INDEX                             = 0xFFFFFFFF
	INVERT                                    = 0x150A
	KEEP                                      = 0x1E00
	LEQUAL                                    = 0x0203
	LESS                                      = 0x0201
	LINEAR                                    = 0x2601
	LINEAR_MIPMAP_LINEAR                      = 0x2703
	LINEAR_MIPMAP_NEAREST                     = 0x2701
	LINES                                     = 0x0001
	LINE_STRIP                                = 0x0003
	LINK_STATUS                               = 0x8B82
	MAX                                       = 0x8008
	MAX_COLOR_ATTACHMENTS                     = 0x8CDF
	MAX_COMBINED_TEXTURE_IMAGE_UNITS          = 0x8B4D
	MAX_DRAW_BUFFERS                          = 0x8824
	MAX_SAMPLES                               = 0x8D57
	MAX_TEXTURE_MAX_ANISOTROPY_EXT            = 0x84FF
	MAX_TEXTURE_SIZE                          = 0x0D33
	MAX_UNIFORM_BLOCK_SIZE                    = 0x8A30
	MAX_UNIFORM_BUFFER_BINDINGS               = 0x8A2F
	MAX_VERTEX_ATTRIBS                        = 0x8869
	MIN                                       = 0x8007
	MIRRORED_REPEAT                           = 0x8370
	NEAREST                                   = 0x2600
	NEAREST_MIPMAP_LINEAR                     = 0x2702
	NEAREST_MIPMAP_NEAREST                    = 0x2700
	NEVER                                     = 0x0200
	NONE                                      = 0
	NOTEQUAL                                  = 0x0205
	ONE                                       = 1
	ONE_MINUS_CONSTANT_ALPHA                  = 0x8004
	ONE_MINUS_CONSTANT_COLOR                  = 0x8002
	ONE_MINUS_DST_ALPHA                       = 0x0305
	ONE_MINUS_DST_COLOR                       = 0x0307
	ONE_MINUS_SRC_ALPHA                       = 0x0303
	ONE_MINUS_SRC_COLOR                       = 0x0301
	PACK_ALIGNMENT                            = 0x0D05
	PACK_ROW_LENGTH                           = 0x0D02
	PIXEL_PACK_BUFFER                         = 0x88EB
	PIXEL_UNPACK_BUFFER                       = 0x88EC
	POINTS                                    = 0x0000
	POLYGON_OFFSET_FILL                       = 0x8037
	R11F_G11F_B10F                            = 0x8C3A
	R16F                                      = 0x822D
	R16I                                      = 0x8233
	R16UI                                     = 0x8234
	R32F                                      = 0x822E
	R32I                                      = 0x8235
	R32UI                                     = 0x8236
	R8                                        = 0x8229
	R8I                                       = 0x8231
	R8UI                                      = 0x8232
	R8_SNORM                                  = 0x8F94
	READ_FRAMEBUFFER                          = 0x8CA8
	RED                                       = 0x1903
	RED_INTEGER                               = 0x8D94
	RENDERBUFFER                              = 0x8D41
	REPEAT                                    = 0x2901
	REPLACE                                   = 0x1E01
	RG                                        = 0x8227
	RG16F                                     = 0x822F
	RG16I                                     = 0x8239
	RG16UI                                    = 0x823A
	RG32F                                     = 0x8230
	RG32I                                     = 0x823B
	RG32UI                                    = 0x823C
	RG8                                       = 0x822B
	RG8I                                      = 0x8237
	RG8UI                                     = 0x8238
	RG8_SNORM                                 = 0x8F95
	RGB                                       = 0x1907
	RGB10_A2                                  = 0x8059
	RGB10_A2UI                                = 0x906F
	RGB9_E5                                   = 0x8C3D
	RGBA                                      = 0x1908
	RGBA16F                                   = 0x881A
	RGBA16I                                   = 0x8D88
	RGBA16UI                                  = 0x8D76
	RGBA32F                                   = 0x8814
	RGBA32I                                   = 0x8D82
	RGBA32UI                                  = 0x8D70
	RGBA8                                     = 0x8058
	RGBA8I                                    = 0x8D8E
	RGBA8UI                                   = 0x8D7C
	RGBA8_SNORM                               = 0x8F97
	RGBA_INTEGER                              = 0x8D99
	RG_INTEGER                                = 0x8228
	SAMPLE_ALPHA_TO_COVERAGE                  = 0x809E
	SCISSOR_TEST                              = 0x0C11
	SHORT                                     = 0x1402
	SRC_ALPHA                                 = 0x0302
	SRC_ALPHA_SATURATE                        = 0x0308
	SRC_COLOR                                 = 0x0300
	SRGB8_ALPHA8                              = 0x8C43
	STATIC_DRAW                               = 0x88E4
	STENCIL                                   = 0x1802
	STENCIL_ATTACHMENT                        = 0x8D20
	STENCIL_BUFFER_BIT                        = 0x0400
	STENCIL_TEST                              = 0x0B90
	SYNC_GPU_COMMANDS_COMPLETE                = 0x9117
	TEXTURE0                                  = 0x84C0
	TEXTURE_2D                                = 0x0DE1
	TEXTURE_2D_ARRAY                          = 0x8C1A
	TEXTURE_3D                                = 0x806F
	TEXTURE_COMPARE_FUNC                      = 0x884D
	TEXTURE_COMPARE_MODE                      = 0x884C
	TEXTURE_CUBE_MAP                          = 0x8513
	TEXTURE_MAG_FILTER                        = 0x2800
	TEXTURE_MAX_ANISOTROPY_EXT                = 0x84FE
	TEXTURE_MAX_LOD                           = 0x813B
	TEXTURE_MIN_FILTER                        = 0x2801
	TEXTURE_MIN_LOD                           = 0x813A
	TEXTURE_WRAP_R                            = 0x8072
	TEXTURE_WRAP_S                            = 0x2802
	TEXTURE_WRAP_T                            = 0x2803
	TIMEOUT_EXPIRED                           = 0x911B
	TRIANGLES                                 = 0x0004
	TRIANGLE_STRIP                            = 0x0005
	UNIFORM_BLOCK_DATA_SIZE                   = 0x8A40
	UNIFORM_BUFFER                            = 0x8A11
	UNIFORM_BUFFER_BINDING                    = 0x8A28
	UNIFORM_BUFFER_OFFSET_ALIGNMENT           = 0x8A34
	UNPACK_ALIGNMENT                          = 0x0CF5
	UNPACK_IMAGE_HEIGHT                       = 0x806E
	UNPACK_ROW_LENGTH                         = 0x0CF2
	UNSIGNED_BYTE                             = 0x1401
	UNSIGNED_INT                              = 0x1405
	UNSIGNED_INT_10F_11F_11F_REV              = 0x8C3B
	UNSIGNED_INT_24_8                         = 0x84FA
	UNSIGNED_INT_2_10_10_10_REV               = 0x8368
	UNSIGNED_INT_5_9_9_9_REV                  = 0x8C3E
	UNSIGNED_SHORT                            = 0x1403
	VERTEX_SHADER                             = 0x8B31
	WAIT_FAILED                               = 0x911D
	ZERO                                      = 0
)
