package shader

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// reflectionFragmentSource is written against WebGL2 and translated for desktop GL.
//
// Texture units, relative to the pass offset:
//
//	0 u_Pos       world position, w = 0 where nothing was rasterized
//	1 u_Nor       world normal
//	2 u_Albedo    base color
//	3 u_Material  x = reflectivity
//	4 u_EnvMap    equirectangular environment
//	5 u_FloorTex  tiled floor color
//	6 u_SceneInfo 3 texels of vertex positions per triangle, then one material
//	              texel per triangle (rgb albedo, a reflectivity, negative a = floor)
//	7 u_BVH       2 texels per node: (min, a) (max, b). b < 0 marks a leaf holding
//	              triangles a .. a-b-1, otherwise a and b are the children.
const reflectionFragmentSource = `#version 300 es
precision highp float;
precision highp int;
precision highp sampler2D;

uniform sampler2D u_Pos;
uniform sampler2D u_Nor;
uniform sampler2D u_Albedo;
uniform sampler2D u_Material;
uniform sampler2D u_EnvMap;
uniform sampler2D u_FloorTex;
uniform sampler2D u_SceneInfo;
uniform sampler2D u_BVH;

uniform int   u_TriangleCount;
uniform int   u_NodeCount;
uniform vec4  u_LightPos;
uniform int   u_Width;
uniform int   u_Height;
uniform int   u_SceneTexWidth;
uniform int   u_SceneTexHeight;
uniform int   u_BVHTexWidth;
uniform int   u_BVHTexHeight;
uniform vec3  u_Camera;
uniform mat4  u_ViewInv;
uniform mat4  u_ProjInv;
uniform float u_Far;
uniform int   u_RayDepth;
uniform int   u_UseBVH;

in vec2 frag_uv;
out vec4 out_Col;

const int   MAX_DEPTH  = 8;
const int   STACK_SIZE = 32;
const float EPS        = 1e-4;
const float PI         = 3.14159265;

vec4 fetch(sampler2D tex, int index, int width) {
    return texelFetch(tex, ivec2(index % width, index / width), 0);
}

vec3 envColor(vec3 dir) {
    vec2 uv = vec2(atan(dir.z, dir.x) / (2.0 * PI) + 0.5, acos(clamp(dir.y, -1.0, 1.0)) / PI);
    return texture(u_EnvMap, uv).rgb;
}

float intersectTriangle(vec3 ro, vec3 rd, vec3 v0, vec3 v1, vec3 v2, out vec3 n) {
    vec3 e1 = v1 - v0;
    vec3 e2 = v2 - v0;
    vec3 p = cross(rd, e2);
    float det = dot(e1, p);
    n = vec3(0.0);
    if (abs(det) < EPS) return -1.0;
    float inv = 1.0 / det;
    vec3 s = ro - v0;
    float u = dot(s, p) * inv;
    if (u < 0.0 || u > 1.0) return -1.0;
    vec3 q = cross(s, e1);
    float v = dot(rd, q) * inv;
    if (v < 0.0 || u + v > 1.0) return -1.0;
    float t = dot(e2, q) * inv;
    n = normalize(cross(e1, e2));
    return t > EPS ? t : -1.0;
}

void hitTriangle(int i, vec3 ro, vec3 rd, inout float tMin, inout vec3 nHit, inout int idHit) {
    vec3 v0 = fetch(u_SceneInfo, i * 3, u_SceneTexWidth).xyz;
    vec3 v1 = fetch(u_SceneInfo, i * 3 + 1, u_SceneTexWidth).xyz;
    vec3 v2 = fetch(u_SceneInfo, i * 3 + 2, u_SceneTexWidth).xyz;
    vec3 n;
    float t = intersectTriangle(ro, rd, v0, v1, v2, n);
    if (t > 0.0 && t < tMin) {
        tMin = t;
        nHit = n;
        idHit = i;
    }
}

bool hitBox(vec3 ro, vec3 invDir, vec3 bmin, vec3 bmax, float tMax) {
    vec3 t0 = (bmin - ro) * invDir;
    vec3 t1 = (bmax - ro) * invDir;
    vec3 lo = min(t0, t1);
    vec3 hi = max(t0, t1);
    float tn = max(max(lo.x, lo.y), lo.z);
    float tf = min(min(hi.x, hi.y), hi.z);
    return tf >= max(tn, 0.0) && tn < tMax;
}

bool traceBrute(vec3 ro, vec3 rd, out float t, out vec3 n, out int id) {
    t = u_Far;
    n = vec3(0.0);
    id = -1;
    for (int i = 0; i < u_TriangleCount; i++) {
        hitTriangle(i, ro, rd, t, n, id);
    }
    return id >= 0;
}

bool traceBVH(vec3 ro, vec3 rd, out float t, out vec3 n, out int id) {
    t = u_Far;
    n = vec3(0.0);
    id = -1;
    if (u_NodeCount == 0) return false;

    int stack[STACK_SIZE];
    int sp = 0;
    stack[sp++] = 0;
    vec3 invDir = 1.0 / rd;
    while (sp > 0) {
        int node = stack[--sp];
        vec4 a = fetch(u_BVH, node * 2, u_BVHTexWidth);
        vec4 b = fetch(u_BVH, node * 2 + 1, u_BVHTexWidth);
        if (!hitBox(ro, invDir, a.xyz, b.xyz, t)) continue;
        if (b.w < 0.0) {
            int first = int(a.w);
            int count = int(-b.w);
            for (int k = 0; k < count; k++) {
                hitTriangle(first + k, ro, rd, t, n, id);
            }
        } else if (sp < STACK_SIZE - 1) {
            stack[sp++] = int(a.w);
            stack[sp++] = int(b.w);
        }
    }
    return id >= 0;
}

bool trace(vec3 ro, vec3 rd, out float t, out vec3 n, out int id) {
    if (u_UseBVH == 1) {
        return traceBVH(ro, rd, t, n, id);
    }
    return traceBrute(ro, rd, t, n, id);
}

vec3 shade(vec3 p, vec3 n, vec3 albedo) {
    vec3 toLight = u_LightPos.xyz - p;
    vec3 l = normalize(toLight);
    float diff = max(dot(n, l), 0.0);
    float ts;
    vec3 ns;
    int ids;
    float shadow = 1.0;
    if (trace(p + n * EPS * 10.0, l, ts, ns, ids) && ts < length(toLight)) {
        shadow = 0.3;
    }
    return albedo * (0.1 + 0.9 * diff * shadow);
}

void main() {
    vec2 uv = gl_FragCoord.xy / vec2(float(u_Width), float(u_Height));
    vec4 pos = texture(u_Pos, uv);

    if (pos.w == 0.0) {
        vec4 ndc = vec4(uv * 2.0 - 1.0, 1.0, 1.0);
        vec4 view = u_ProjInv * ndc;
        view /= view.w;
        vec3 dir = normalize((u_ViewInv * vec4(view.xyz, 0.0)).xyz);
        out_Col = vec4(envColor(dir), 1.0);
        return;
    }

    vec3 p = pos.xyz;
    vec3 n = normalize(texture(u_Nor, uv).xyz);
    vec3 albedo = texture(u_Albedo, uv).rgb;
    float reflectivity = texture(u_Material, uv).x;

    vec3 color = shade(p, n, albedo);
    vec3 throughput = vec3(reflectivity);
    vec3 rd = reflect(normalize(p - u_Camera), n);

    for (int depth = 0; depth < MAX_DEPTH; depth++) {
        if (depth >= u_RayDepth || reflectivity <= 0.0) break;
        float t;
        vec3 hn;
        int id;
        vec3 ro = p + n * EPS * 10.0;
        if (!trace(ro, rd, t, hn, id)) {
            color += throughput * envColor(rd);
            break;
        }
        vec3 hp = ro + rd * t;
        if (dot(hn, rd) > 0.0) hn = -hn;
        vec4 hm = fetch(u_SceneInfo, u_TriangleCount * 3 + id, u_SceneTexWidth);
        vec3 ha = hm.rgb;
        if (hm.a < 0.0) {
            ha = texture(u_FloorTex, hp.xz * 0.25).rgb;
        }
        color += throughput * shade(hp, hn, ha);
        throughput *= abs(hm.a);
        reflectivity = abs(hm.a);
        p = hp;
        n = hn;
        rd = reflect(rd, hn);
    }
    out_Col = vec4(color, 1.0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

func GenerateVertexShader(isGLES bool) string {
	if isGLES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

// GetReflectionFragmentShader returns the WebGL2 reflection shader, untranslated.
func GetReflectionFragmentShader() string {
	return reflectionFragmentSource
}
